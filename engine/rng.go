package engine

import (
	"math/rand"
	"time"
)

// RNG wraps math/rand.Rand and counts draws for diagnostics.
type RNG struct {
	src *rand.Rand
	pos int64
}

// NewRNG creates an RNG from a fixed seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// NewLiveRNG creates an RNG seeded from the clock. Games use this; there
// is no replay.
func NewLiveRNG() *RNG {
	return NewRNG(time.Now().UnixNano())
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
