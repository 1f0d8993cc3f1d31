// Package rng provides the random sources used by the engine: a seeded RNG
// that tracks how many draws it has made (so a save can restore it exactly)
// and a scripted source for tests.
package rng

import "math/rand"

// Roller is the minimal random source the engine draws from.
type Roller interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// countingSource counts every Int63 draw. All math/rand.Rand methods used
// here funnel through Int63, so the count is an exact replay position.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
type RNG struct {
	seed int64
	cs   *countingSource
	r    *rand.Rand
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{seed: seed, cs: cs, r: rand.New(cs)}
}

// Restore creates an RNG and advances it to the given position.
func Restore(seed, position int64) *RNG {
	g := New(seed)
	for i := int64(0); i < position; i++ {
		g.cs.Int63()
	}
	return g
}

// Intn returns a uniform integer in [0, n).
func (g *RNG) Intn(n int) int { return g.r.Intn(n) }

// Float64 returns a uniform float in [0, 1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Seed returns the seed the RNG was created with.
func (g *RNG) Seed() int64 { return g.seed }

// Position returns the number of source draws made since creation.
func (g *RNG) Position() int64 { return g.cs.n }

// Roll returns a uniform integer in [1, sides].
func Roll(r Roller, sides int) int {
	return r.Intn(sides) + 1
}

// Between returns a uniform integer in [lo, hi]. hi < lo yields lo.
func Between(r Roller, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance reports whether a draw falls under p.
func Chance(r Roller, p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](r Roller, items []T) T {
	return items[r.Intn(len(items))]
}
