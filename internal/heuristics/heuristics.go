// Package heuristics implements the four branching strategies the
// controller chooses between: VSIDS, Jeroslow-Wang, DLIS and Random. Each
// implements Heuristic; Decide reports ok=false once the formula is fully
// assigned.
package heuristics

import "github.com/hartert-lab/satbandit/internal/sat"

// Heuristic picks the next branching literal given the solver's current
// state. Decide returns ok=false only when every variable is assigned.
type Heuristic interface {
	Name() string
	Decide(s *sat.Solver) (lit sat.Literal, ok bool)
}

// ClauseAware is implemented by heuristics that maintain incremental state
// over the clause database (currently only Jeroslow-Wang) and must be
// notified whenever a clause is added to the solver, original or learned.
type ClauseAware interface {
	NotifyClauseAdded(s *sat.Solver, c *sat.Clause)
}

// All returns one instance of every heuristic, in the fixed order used to
// index bandit arms: VSIDS, Jeroslow-Wang, DLIS, Random.
func All() []Heuristic {
	return []Heuristic{
		NewVSIDS(),
		NewJeroslowWang(),
		NewDLIS(),
		NewRandom(),
	}
}

// decisionLiteral applies a variable's saved phase to pick its sign,
// falling back to naturalSign (the heuristic's own preferred polarity) if
// the variable has never been assigned before.
func decisionLiteral(s *sat.Solver, v int, naturalSign bool) sat.Literal {
	switch s.Phase(v) {
	case sat.True:
		return sat.Lit(v)
	case sat.False:
		return sat.NegLit(v)
	default:
		if naturalSign {
			return sat.Lit(v)
		}
		return sat.NegLit(v)
	}
}
