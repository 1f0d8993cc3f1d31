package rng

// Scripted is a Roller that replays queued values in order. Intn values are
// reduced modulo n. When a queue runs dry, Intn returns 0 and Float64 0.5.
type Scripted struct {
	ints   []int
	floats []float64
}

// NewScripted returns an empty scripted source.
func NewScripted() *Scripted {
	return &Scripted{}
}

// Ints queues values for Intn.
func (s *Scripted) Ints(v ...int) *Scripted {
	s.ints = append(s.ints, v...)
	return s
}

// Floats queues values for Float64.
func (s *Scripted) Floats(v ...float64) *Scripted {
	s.floats = append(s.floats, v...)
	return s
}

// Intn implements Roller.
func (s *Scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// Float64 implements Roller.
func (s *Scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Remaining reports how many queued values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.ints) + len(s.floats)
}
