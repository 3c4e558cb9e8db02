package heuristics

import (
	"math/rand"

	"github.com/hartert-lab/satbandit/internal/sat"
)

// Random picks the first unassigned variable in index order and a sign
// drawn from its saved phase, falling back to a coin flip if the variable
// has never been assigned.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random heuristic with the fixed seed 1, so its
// choices are the same on every run. Use NewRandomSeeded for another seed.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(1))}
}

// NewRandomSeeded returns a Random heuristic seeded deterministically.
func NewRandomSeeded(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (h *Random) Name() string { return "random" }

func (h *Random) Decide(s *sat.Solver) (sat.Literal, bool) {
	for v := 1; v <= s.NumVars(); v++ {
		if s.VarValue(v) != sat.Unknown {
			continue
		}
		switch s.Phase(v) {
		case sat.True:
			return sat.Lit(v), true
		case sat.False:
			return sat.NegLit(v), true
		default:
			if h.rng.Float64() < 0.5 {
				return sat.Lit(v), true
			}
			return sat.NegLit(v), true
		}
	}
	return 0, false
}
