// Package entropy provides the seeded randomness source behind every
// probabilistic choice in the game. One Source per game instance: a fixed
// seed reproduces the whole game, including the trait draws at construction.
package entropy

import "math/rand"

// Source is the single injectable random source for a game.
// Implementations do not need to be safe for concurrent use; the game is
// strictly turn-based.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// UniformIn returns a value in [lo, hi).
	UniformIn(lo, hi float64) float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type seeded struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64() float64 { return s.r.Float64() }

func (s *seeded) UniformIn(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

func (s *seeded) Intn(n int) int { return s.r.Intn(n) }

// Pick returns a uniformly chosen element of lines, or "" when empty.
func Pick(src Source, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[src.Intn(len(lines))]
}
