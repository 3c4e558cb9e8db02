package heuristics

import (
	"github.com/hartert-lab/satbandit/internal/sat"
	"github.com/rhartert/yagh"
)

// VSIDS picks the unassigned variable with the highest activity, as
// maintained by the solver's own conflict-driven activity bumping
// (bump-on-resolution with periodic decay and rescale).
//
// Activities are mutated deep inside conflict analysis, outside this
// heuristic's control, so rather than try to keep a persistent heap in sync
// with external bumps it rebuilds a small yagh heap over the unassigned
// variables on every decision. This keeps the same heap-based selection the
// teacher solver uses internally while staying correct regardless of how
// many bumps happened since the last decision.
type VSIDS struct{}

// NewVSIDS returns a VSIDS heuristic.
func NewVSIDS() *VSIDS { return &VSIDS{} }

func (h *VSIDS) Name() string { return "vsids" }

func (h *VSIDS) Decide(s *sat.Solver) (sat.Literal, bool) {
	n := s.NumVars()
	order := yagh.New[float64](0)
	order.GrowBy(n + 1)

	any := false
	for v := 1; v <= n; v++ {
		if s.VarValue(v) != sat.Unknown {
			continue
		}
		order.Put(v, -s.Activity(v))
		any = true
	}
	if !any {
		return 0, false
	}

	next, ok := order.Pop()
	if !ok {
		return 0, false
	}
	return decisionLiteral(s, next.Elem, true), true
}
