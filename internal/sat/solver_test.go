package sat

import "testing"

func solveAll(s *Solver, restartEvery int64) (sat bool, conflicts int64) {
	if s.NumClauses() == 0 {
		return true, 0
	}
	for {
		if c := s.Propagate(); c != nil {
			if s.DecisionLevel() == 0 {
				return false, s.Conflicts()
			}
			learned, bt, _ := s.Analyze(c)
			s.Backjump(bt)
			s.Learn(learned)
			if restartEvery > 0 && s.Conflicts() > 0 && s.Conflicts()%restartEvery == 0 {
				s.Restart()
			}
			continue
		}

		v := 0
		for cand := 1; cand <= s.NumVars(); cand++ {
			if s.VarValue(cand) == Unknown {
				v = cand
				break
			}
		}
		if v == 0 {
			return true, s.Conflicts()
		}
		s.Assume(Lit(v))
	}
}

func TestSolver_EmptyClauseIsImmediateUnsat(t *testing.T) {
	s := NewSolver(1)
	s.AddClause([]Literal{})

	if !s.Unsat() {
		t.Fatalf("expected Unsat() to be true after adding an empty clause")
	}
	if s.Conflicts() != 0 || s.Decisions() != 0 {
		t.Fatalf("expected 0 conflicts and 0 decisions, got conflicts=%d decisions=%d", s.Conflicts(), s.Decisions())
	}
}

func TestSolver_NoClausesIsImmediateSat(t *testing.T) {
	s := NewSolver(3)
	ok, _ := solveAll(s, 0)
	if !ok {
		t.Fatalf("expected SAT for a formula with no clauses")
	}
	if s.TrailLen() != 0 {
		t.Fatalf("expected empty trail, got %d assignments", s.TrailLen())
	}
}

func TestSolver_UnitRootContradiction(t *testing.T) {
	s := NewSolver(1)
	s.AddClause([]Literal{Lit(1)})
	s.AddClause([]Literal{NegLit(1)})

	if !s.Unsat() {
		t.Fatalf("expected Unsat() to be true")
	}
	if s.Decisions() != 0 {
		t.Fatalf("expected 0 decisions, got %d", s.Decisions())
	}
	if s.Conflicts() != 1 {
		t.Fatalf("expected 1 conflict, got %d", s.Conflicts())
	}
}

func TestSolver_ScenarioSat3Vars(t *testing.T) {
	s := NewSolver(3)
	s.AddClause([]Literal{Lit(1), NegLit(2)})
	s.AddClause([]Literal{NegLit(1), Lit(2), Lit(3)})

	ok, _ := solveAll(s, 0)
	if !ok {
		t.Fatalf("expected SAT")
	}
	assertSatisfies(t, s, [][]Literal{
		{Lit(1), NegLit(2)},
		{NegLit(1), Lit(2), Lit(3)},
	})
}

func TestSolver_ScenarioBinaryClauseSat(t *testing.T) {
	s := NewSolver(2)
	s.AddClause([]Literal{Lit(1), Lit(2)})

	ok, _ := solveAll(s, 0)
	if !ok {
		t.Fatalf("expected SAT")
	}
	if s.Decisions() > 2 {
		t.Fatalf("expected at most 2 decisions, got %d", s.Decisions())
	}
	assertSatisfies(t, s, [][]Literal{{Lit(1), Lit(2)}})
}

func TestSolver_Pigeonhole3Into2IsUnsat(t *testing.T) {
	s := pigeonhole(3, 2)

	ok, conflicts := solveAll(s, 0)
	if ok {
		t.Fatalf("expected UNSAT for PHP(3,2)")
	}
	if conflicts < 1 {
		t.Fatalf("expected at least one conflict, got %d", conflicts)
	}
	if s.Decisions() == 0 {
		t.Fatalf("expected at least one decision")
	}
	if s.NumLearned() == 0 {
		t.Fatalf("expected at least one learned clause")
	}
}

func TestLearn_EnqueuesAssertingLiteralOfMultiLiteralClause(t *testing.T) {
	// PHP(3,2) only ever learns a unit clause under this decision order, so
	// the larger PHP(4,3) is used to reach a multi-literal learned clause.
	s := pigeonhole(4, 3)
	for {
		c := s.Propagate()
		if c == nil {
			v := 0
			for cand := 1; cand <= s.NumVars(); cand++ {
				if s.VarValue(cand) == Unknown {
					v = cand
					break
				}
			}
			if v == 0 {
				t.Fatalf("expected a conflict before the formula is fully assigned")
			}
			s.Assume(Lit(v))
			continue
		}
		if s.DecisionLevel() == 0 {
			t.Fatalf("expected a conflict above decision level 0")
		}
		learned, bt, _ := s.Analyze(c)
		s.Backjump(bt)
		lc := s.Learn(learned)
		if len(learned) < 2 {
			continue // keep searching for a conflict that learns a multi-literal clause
		}
		v := learned[0].Var()
		if s.VarValue(v) == Unknown {
			t.Fatalf("asserting literal of a %d-literal learned clause was not enqueued after Learn", len(learned))
		}
		if s.reason[v] != lc {
			t.Fatalf("asserting literal's reason is not the clause Learn just returned")
		}
		return
	}
}

func TestSolver_RestartsAreCounted(t *testing.T) {
	// PHP(4,3) needs more than 5 conflicts; PHP(3,2) is refuted after 2.
	s := pigeonhole(4, 3)
	solveAll(s, 5)

	if s.Restarts() == 0 {
		t.Fatalf("expected at least one restart")
	}
}

// pigeonhole builds PHP(p, h): p pigeons placed into h holes, with each
// pigeon in at least one hole and no hole holding two pigeons. Variable
// (i, j) (1-indexed pigeon i, hole j) is numbered (i-1)*h + j.
func pigeonhole(p, h int) *Solver {
	s := NewSolver(p * h)
	v := func(i, j int) int { return (i-1)*h + j }

	for i := 1; i <= p; i++ {
		clause := make([]Literal, 0, h)
		for j := 1; j <= h; j++ {
			clause = append(clause, Lit(v(i, j)))
		}
		s.AddClause(clause)
	}
	for j := 1; j <= h; j++ {
		for i1 := 1; i1 <= p; i1++ {
			for i2 := i1 + 1; i2 <= p; i2++ {
				s.AddClause([]Literal{NegLit(v(i1, j)), NegLit(v(i2, j))})
			}
		}
	}
	return s
}

func assertSatisfies(t *testing.T, s *Solver, clauses [][]Literal) {
	t.Helper()
	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			if s.LitValue(l) == True {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by the recovered assignment", c)
		}
	}
}

func TestAnalyze_LBDNeverExceedsClauseSize(t *testing.T) {
	s := pigeonhole(3, 2)
	for {
		c := s.Propagate()
		if c == nil {
			v := 0
			for cand := 1; cand <= s.NumVars(); cand++ {
				if s.VarValue(cand) == Unknown {
					v = cand
					break
				}
			}
			if v == 0 {
				return
			}
			s.Assume(Lit(v))
			continue
		}
		if s.DecisionLevel() == 0 {
			return
		}
		learned, bt, lbd := s.Analyze(c)
		if lbd > len(learned) {
			t.Fatalf("LBD %d exceeds learned clause size %d", lbd, len(learned))
		}
		s.Backjump(bt)
		s.Learn(learned)
	}
}
