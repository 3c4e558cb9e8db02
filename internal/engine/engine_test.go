package engine

import (
	"context"
	"testing"

	"github.com/hartert-lab/satbandit/internal/sat"
)

func buildSolver(t *testing.T, numVars int, clauses [][]sat.Literal) *sat.Solver {
	t.Helper()
	s := sat.NewSolver(numVars)
	for _, c := range clauses {
		s.AddClause(c)
	}
	return s
}

func TestEngine_ScenarioSAT(t *testing.T) {
	s := buildSolver(t, 3, [][]sat.Literal{
		{sat.Lit(1), sat.NegLit(2)},
		{sat.NegLit(1), sat.Lit(2), sat.Lit(3)},
	})
	e, err := New(s, Config{Mode: ModeBaseline, BaselineHeuristic: "vsids"})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Solve(context.Background())
	if res.Status != Sat {
		t.Fatalf("want SAT, got %s", res.Status)
	}
}

func TestEngine_ScenarioUnsatRootConflict(t *testing.T) {
	s := buildSolver(t, 1, [][]sat.Literal{
		{sat.Lit(1)},
		{sat.NegLit(1)},
	})
	e, err := New(s, Config{Mode: ModeBaseline, BaselineHeuristic: "vsids"})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Solve(context.Background())
	if res.Status != Unsat {
		t.Fatalf("want UNSAT, got %s", res.Status)
	}
	if res.Decisions != 0 {
		t.Fatalf("want 0 decisions, got %d", res.Decisions)
	}
	if res.Conflicts != 1 {
		t.Fatalf("want 1 conflict, got %d", res.Conflicts)
	}
}

func TestEngine_PigeonholeUnsatAcrossAllHeuristicsAndModes(t *testing.T) {
	clauses := pigeonholeClauses(3, 2)

	for _, mode := range []Mode{ModeRL} {
		s := buildSolver(t, 6, clauses)
		e, err := New(s, Config{Mode: mode, EpochSize: 10})
		if err != nil {
			t.Fatal(err)
		}
		res := e.Solve(context.Background())
		if res.Status != Unsat {
			t.Fatalf("mode %s: want UNSAT, got %s", mode, res.Status)
		}
	}

	for _, h := range []string{"vsids", "jw", "dlis", "random"} {
		s := buildSolver(t, 6, clauses)
		e, err := New(s, Config{Mode: ModeBaseline, BaselineHeuristic: h})
		if err != nil {
			t.Fatal(err)
		}
		res := e.Solve(context.Background())
		if res.Status != Unsat {
			t.Fatalf("heuristic %s: want UNSAT, got %s", h, res.Status)
		}
	}
}

func TestEngine_EmptyFormulaIsSatWithEmptyTrail(t *testing.T) {
	s := sat.NewSolver(3)
	e, err := New(s, Config{Mode: ModeBaseline, BaselineHeuristic: "vsids"})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Solve(context.Background())
	if res.Status != Sat {
		t.Fatalf("want SAT, got %s", res.Status)
	}
	if s.TrailLen() != 0 {
		t.Fatalf("want empty trail, got %d assignments", s.TrailLen())
	}
}

func TestEngine_RestartsAreCounted(t *testing.T) {
	// PHP(3,2) backjumps straight to level 0 on its only non-root conflict,
	// where no restart applies; PHP(4,3) backjumps above the root.
	s := buildSolver(t, 12, pigeonholeClauses(4, 3))
	e, err := New(s, Config{Mode: ModeBaseline, BaselineHeuristic: "vsids", RestartInterval: 1})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Solve(context.Background())
	if res.Status != Unsat {
		t.Fatalf("want UNSAT, got %s", res.Status)
	}
	if res.Restarts == 0 {
		t.Fatalf("want at least one restart")
	}
}

// pigeonholeClauses builds PHP(p, h) over variables numbered (i-1)*h+j.
func pigeonholeClauses(p, h int) [][]sat.Literal {
	v := func(i, j int) int { return (i-1)*h + j }
	var clauses [][]sat.Literal
	for i := 1; i <= p; i++ {
		c := make([]sat.Literal, 0, h)
		for j := 1; j <= h; j++ {
			c = append(c, sat.Lit(v(i, j)))
		}
		clauses = append(clauses, c)
	}
	for j := 1; j <= h; j++ {
		for i1 := 1; i1 <= p; i1++ {
			for i2 := i1 + 1; i2 <= p; i2++ {
				clauses = append(clauses, []sat.Literal{sat.NegLit(v(i1, j)), sat.NegLit(v(i2, j))})
			}
		}
	}
	return clauses
}
