package heuristics

import "github.com/hartert-lab/satbandit/internal/sat"

// JeroslowWang scores each literal by summing 2^-|C| over every clause C it
// appears in, favoring variables that occur frequently in short clauses. It
// maintains pos/neg weight slices incrementally (see NotifyClauseAdded)
// rather than rescanning the clause database on every decision.
type JeroslowWang struct {
	posWeight []float64
	negWeight []float64
}

// NewJeroslowWang returns a Jeroslow-Wang heuristic with empty weights. The
// weights of the clauses already in the solver are computed on first use
// (by Decide or NotifyClauseAdded); clauses added after that are folded in
// by NotifyClauseAdded, which the engine calls for every learned clause.
func NewJeroslowWang() *JeroslowWang {
	return &JeroslowWang{}
}

func (h *JeroslowWang) Name() string { return "jw" }

// ensure (re)initializes the weight slices the first time it sees a given
// variable count, recomputing weights from scratch over every clause
// currently in the solver (including one just appended to the database, if
// called from NotifyClauseAdded). It reports whether it performed that
// recompute, so callers that are about to fold in one specific clause can
// skip doing so redundantly. NotifyClauseAdded keeps weights current
// afterwards via incremental folding alone.
func (h *JeroslowWang) ensure(s *sat.Solver) bool {
	n := s.NumVars()
	if len(h.posWeight) == n+1 {
		return false
	}
	h.posWeight = make([]float64, n+1)
	h.negWeight = make([]float64, n+1)
	s.Clauses(func(c *sat.Clause) bool {
		h.addWeights(c)
		return true
	})
	return true
}

func (h *JeroslowWang) addWeights(c *sat.Clause) {
	lits := c.Literals()
	k := len(lits)
	if k < 1 {
		k = 1
	}
	w := clauseWeight(k)
	for _, l := range lits {
		if l.IsPositive() {
			h.posWeight[l.Var()] += w
		} else {
			h.negWeight[l.Var()] += w
		}
	}
}

// NotifyClauseAdded folds c's literals into the running weight totals. It
// must be called once for every clause added to the solver, original or
// learned, so weights stay consistent with the live clause database.
func (h *JeroslowWang) NotifyClauseAdded(s *sat.Solver, c *sat.Clause) {
	if recomputed := h.ensure(s); recomputed {
		return // c was already folded in by the full rescan above
	}
	h.addWeights(c)
}

func clauseWeight(size int) float64 {
	weight := 1.0
	for i := 0; i < size; i++ {
		weight /= 2
	}
	return weight
}

func (h *JeroslowWang) Decide(s *sat.Solver) (sat.Literal, bool) {
	h.ensure(s)

	bestV := -1
	bestScore := -1.0
	bestSign := true
	for v := 1; v <= s.NumVars(); v++ {
		if s.VarValue(v) != sat.Unknown {
			continue
		}
		pos, neg := h.posWeight[v], h.negWeight[v]
		score, sign := pos, true
		if neg > pos {
			score, sign = neg, false
		}
		if score > bestScore {
			bestScore, bestV, bestSign = score, v, sign
		}
	}
	if bestV < 0 {
		return 0, false
	}
	return decisionLiteral(s, bestV, bestSign), true
}
