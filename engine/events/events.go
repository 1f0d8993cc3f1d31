// Package events implements single-pass dispatch of engine notifications
// to the front end: the game being won and the per-command status
// projection. Handlers observe; they never feed back into the engine.
package events

import "github.com/nathoo/lyre/engine/entity"

// Kind identifies an event type.
type Kind int

const (
	Won Kind = iota + 1
	StatusChanged
	Defeated
)

func (k Kind) String() string {
	switch k {
	case Won:
		return "won"
	case StatusChanged:
		return "status"
	case Defeated:
		return "defeated"
	}
	return "unknown"
}

// Status is the read-only projection of the player shown by status bars.
type Status struct {
	Health            int
	MaxHealth         int
	Experience        int
	NextLevel         int
	Level             int
	Gold              int
	HealthPercent     float64
	ExperiencePercent float64 // progress within the current level
}

// Event is a single notification. Title and Message carry the display
// payload of Won and Defeated; Status is set for StatusChanged.
type Event struct {
	Kind    Kind
	Title   string
	Message string
	Status  Status
}

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers. Single pass, no recursion: a
// handler that publishes is ignored until the current dispatch returns.
type Bus struct {
	handlers map[Kind][]Handler
	busy     bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[Kind][]Handler{}}
}

// Subscribe registers h for events of kind k.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.handlers[k] = append(b.handlers[k], h)
}

// Publish delivers e to every handler subscribed to its kind, in
// subscription order. Returns the number of handlers run.
func (b *Bus) Publish(e Event) int {
	if b == nil || b.busy {
		return 0
	}
	b.busy = true
	defer func() { b.busy = false }()

	n := 0
	for _, h := range b.handlers[e.Kind] {
		h(e)
		n++
	}
	return n
}

// ProjectStatus computes the status projection for p.
func ProjectStatus(p *entity.Player) Status {
	st := Status{
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		Experience: p.Experience,
		NextLevel:  p.NextLevelAt(),
		Level:      p.Level,
		Gold:       p.Gold,
	}
	if p.MaxHealth > 0 {
		st.HealthPercent = clamp(float64(p.Health) / float64(p.MaxHealth))
	}
	start := (p.Level - 1) * 100
	if need := st.NextLevel - start; need > 0 {
		st.ExperiencePercent = clamp(float64(p.Experience-start) / float64(need))
	}
	return st
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
