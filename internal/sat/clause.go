package sat

import "strings"

// Clause is an ordered, duplicate-free sequence of literals. Clauses of
// length >= 2 are watched on their first two literals; a unit clause is
// watched on its single literal. There is no clause deletion: the database
// only grows over the life of a solve.
type Clause struct {
	literals []Literal
	learned  bool
}

// Literals returns the clause's literals. The returned slice must not be
// mutated by the caller.
func (c *Clause) Literals() []Literal {
	return c.literals
}

// Learned reports whether the clause was derived by conflict analysis, as
// opposed to being part of the original input formula.
func (c *Clause) Learned() bool {
	return c.learned
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// newClause builds and registers a clause from tmpLiterals, mutating
// tmpLiterals in place while scanning it (the caller must not reuse it).
//
// For non-learned clauses it first removes duplicate literals, detects
// tautologies (v and -v both present) and drops literals already falsified
// at the root level. The returned bool is false only when the clause (after
// simplification) is empty, i.e. the formula is unsatisfiable.
//
// A clause with a single remaining literal is still materialized (watched
// once) and its literal enqueued with that clause as reason, so that it
// counts as a propagation rather than a decision and can explain itself
// during conflict analysis.
func newClause(s *Solver, tmpLiterals []Literal, learned bool) (*Clause, bool) {
	originalSize := len(tmpLiterals)
	size := originalSize

	if !learned {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautology: always satisfied, drop it
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true // already satisfied at the root level
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	if size == 0 {
		if !learned && originalSize > 0 {
			// The clause was not empty on input; every one of its literals
			// was falsified by the existing root-level assignment. That is
			// a root-level conflict, distinct from an empty input clause
			// (which is vacuously unsatisfiable without a conflict).
			s.conflicts++
		}
		return nil, false
	}

	c := &Clause{
		learned:  learned,
		literals: append([]Literal(nil), tmpLiterals...),
	}

	if size == 1 {
		s.watch(c, c.literals[0].Opposite())
		return c, s.enqueue(c.literals[0], c)
	}

	if learned {
		// The asserting literal (position 0, placed there by analyze) stays
		// put; the second watch should be the remaining literal with the
		// highest decision level so it is the first to need re-watching
		// after backjump.
		maxLevel := -1
		swapAt := 1
		for i := 1; i < len(c.literals); i++ {
			if lvl := s.level[c.literals[i].Var()]; lvl > maxLevel {
				maxLevel = lvl
				swapAt = i
			}
		}
		c.literals[1], c.literals[swapAt] = c.literals[swapAt], c.literals[1]
	}

	s.watch(c, c.literals[0].Opposite())
	s.watch(c, c.literals[1].Opposite())

	if learned {
		// The asserting literal is forced the instant the clause is
		// installed: every other literal is already false at the
		// backjumped decision level, so c is unit on c.literals[0].
		return c, s.enqueue(c.literals[0], c)
	}

	return c, true
}

// propagate is invoked when c's watch on literal falseLit just became false.
// It returns true if c still has two non-false watches (or is satisfied) and
// no new fact had to be enqueued, or if a new fact was enqueued successfully.
// It returns false if c is now falsified under the current assignment, i.e.
// c is the conflict clause.
func (c *Clause) propagate(s *Solver, falseLit Literal) bool {
	if len(c.literals) == 1 {
		// A permanent root fact: its single watch can only fire if the
		// variable were reassigned, which never happens after level 0.
		s.watch(c, falseLit)
		return true
	}

	opp := falseLit.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
	}

	if s.LitValue(c.literals[0]) == True {
		s.watch(c, falseLit) // clause already satisfied, keep the same watch
		return true
	}

	for i := 2; i < len(c.literals); i++ {
		if s.LitValue(c.literals[i]) != False {
			c.literals[1], c.literals[i] = c.literals[i], c.literals[1]
			s.watch(c, c.literals[1].Opposite())
			return true
		}
	}

	// All other literals are false: c.literals[0] must become true.
	s.watch(c, falseLit)
	return s.enqueue(c.literals[0], c)
}
