package heuristics

import "github.com/hartert-lab/satbandit/internal/sat"

// DLIS (Dynamic Largest Individual Sum) picks, among unassigned variables,
// the literal that currently appears in the most not-yet-satisfied clauses.
// Unlike VSIDS and Jeroslow-Wang it keeps no running state: the count is
// recomputed from the live clause database on every decision, which is the
// point of the heuristic (it reacts to exactly the current partial
// assignment) but makes it the most expensive of the four per decision.
type DLIS struct{}

// NewDLIS returns a DLIS heuristic.
func NewDLIS() *DLIS { return &DLIS{} }

func (h *DLIS) Name() string { return "dlis" }

func (h *DLIS) Decide(s *sat.Solver) (sat.Literal, bool) {
	n := s.NumVars()
	posCount := make([]int, n+1)
	negCount := make([]int, n+1)

	s.Clauses(func(c *sat.Clause) bool {
		if s.IsSatisfied(c) {
			return true
		}
		for _, l := range c.Literals() {
			if s.VarValue(l.Var()) != sat.Unknown {
				continue
			}
			if l.IsPositive() {
				posCount[l.Var()]++
			} else {
				negCount[l.Var()]++
			}
		}
		return true
	})

	bestV := -1
	bestCount := -1
	bestSign := true
	for v := 1; v <= n; v++ {
		if s.VarValue(v) != sat.Unknown {
			continue
		}
		count, sign := posCount[v], true
		if negCount[v] > posCount[v] {
			count, sign = negCount[v], false
		}
		if count > bestCount {
			bestCount, bestV, bestSign = count, v, sign
		}
	}
	if bestV < 0 {
		return 0, false
	}
	if bestSign {
		return sat.Lit(bestV), true
	}
	return sat.NegLit(bestV), true
}
