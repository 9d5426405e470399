// Package rng provides the random source used by layout generation and
// pulse spawning. Everything that draws random numbers takes a Source so a
// fixed seed reproduces the same board.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the minimal random interface the engine depends on.
type Source interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
	// Intn returns a number in [0, n). It returns 0 when n <= 0.
	Intn(n int) int
}

type pcgSource struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. A zero seed picks one from the clock.
func New(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgSource) Float64() float64 { return s.r.Float64() }

func (s *pcgSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Coin reports true with probability p.
func Coin(src Source, p float64) bool {
	return src.Float64() < p
}

// Sign returns +1 or -1 with equal probability.
func Sign(src Source) int {
	if src.Float64() > 0.5 {
		return 1
	}
	return -1
}

// Between returns an integer uniform in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Scripted replays a fixed sequence of floats. Intn maps the next float onto
// [0, n). It is meant for tests that need to steer a single decision.
type Scripted struct {
	Values []float64
	pos    int
}

func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
