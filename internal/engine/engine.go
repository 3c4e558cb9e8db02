// Package engine ties the solver, the branching heuristics and the epoch
// controller together into the top-level CDCL search loop, in either
// baseline (one fixed heuristic) or RL (bandit-driven heuristic switching
// every epoch) mode.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hartert-lab/satbandit/internal/epoch"
	"github.com/hartert-lab/satbandit/internal/heuristics"
	"github.com/hartert-lab/satbandit/internal/metrics"
	"github.com/hartert-lab/satbandit/internal/sat"
)

// progressLogInterval bounds how often Engine.Solve prints an unthrottled
// progress line to stdout when the conflict count alone isn't firing it.
const progressLogInterval = 2 * time.Second

// progressLogEvery is the conflict-count throttle: a progress line is always
// printed on conflict counts that are multiples of this value.
const progressLogEvery = 50

// Mode selects whether the engine cycles heuristics via the bandit or runs
// a single fixed heuristic throughout the solve.
type Mode string

const (
	ModeRL       Mode = "rl"
	ModeBaseline Mode = "baseline"
)

// Status is the outcome of a Solve call.
type Status int

const (
	Unsat Status = iota
	Sat
	Timeout
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	case Timeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Config configures an Engine.
type Config struct {
	Mode              Mode
	BaselineHeuristic string // used only when Mode == ModeBaseline
	EpochSize         int64
	RestartInterval   int64
	Alpha             float64
	Logger            *metrics.EpochLogger // nil disables epoch CSV logging
}

// Result reports the outcome of a Solve call along with the running totals
// the caller typically wants to print or log.
type Result struct {
	Status       Status
	Model        []bool // 1-indexed by variable; nil unless Status == Sat
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Restarts     int64
}

// Engine drives the search loop over a single solver instance.
type Engine struct {
	solver *sat.Solver
	cfg    Config

	pool        []heuristics.Heuristic
	clauseAware []heuristics.ClauseAware

	controller *epoch.Controller // nil in baseline mode
	window     *epoch.Window     // nil in RL mode
	active     heuristics.Heuristic

	lastLog time.Time // last time a throttled progress line was printed
}

// New builds an Engine over s using cfg. The solver's clauses must already
// be loaded (AddClause calls complete) before New is called.
func New(s *sat.Solver, cfg Config) (*Engine, error) {
	if cfg.EpochSize <= 0 {
		cfg.EpochSize = epoch.DefaultSize
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = epoch.DefaultAlpha
	}

	pool := heuristics.All()
	e := &Engine{solver: s, cfg: cfg, pool: pool}
	for _, h := range pool {
		if ca, ok := h.(heuristics.ClauseAware); ok {
			e.clauseAware = append(e.clauseAware, ca)
		}
	}

	switch cfg.Mode {
	case ModeRL, "":
		e.cfg.Mode = ModeRL
		e.controller = epoch.NewController(pool, cfg.EpochSize, cfg.Alpha)
	case ModeBaseline:
		h := findHeuristic(pool, cfg.BaselineHeuristic)
		if h == nil {
			return nil, fmt.Errorf("engine: unknown baseline heuristic %q", cfg.BaselineHeuristic)
		}
		e.active = h
		e.window = epoch.NewWindow(h.Name(), cfg.EpochSize)
	default:
		return nil, fmt.Errorf("engine: unknown mode %q", cfg.Mode)
	}

	return e, nil
}

func findHeuristic(pool []heuristics.Heuristic, name string) heuristics.Heuristic {
	name = strings.ToLower(name)
	for _, h := range pool {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// CurrentHeuristic returns the heuristic currently branching, i.e. the fixed
// baseline heuristic or the bandit's current arm.
func (e *Engine) CurrentHeuristic() heuristics.Heuristic {
	return e.active
}

func (e *Engine) notifyClauseAdded(c *sat.Clause) {
	for _, ca := range e.clauseAware {
		ca.NotifyClauseAdded(e.solver, c)
	}
}

// Solve runs the CDCL search loop to completion, timeout, or ctx
// cancellation, whichever comes first.
func (e *Engine) Solve(ctx context.Context) Result {
	s := e.solver

	if s.Unsat() {
		return e.result(Unsat)
	}
	if s.NumClauses() == 0 {
		// A formula with no clauses is vacuously satisfied; nothing needs
		// to be assigned.
		return e.result(Sat)
	}

	e.openEpoch(s)
	e.lastLog = time.Now()

	checkEvery := 1024
	steps := 0

	for {
		steps++
		if steps%checkEvery == 0 {
			select {
			case <-ctx.Done():
				return e.result(Timeout)
			default:
			}
		}

		conflict := s.Propagate()
		if conflict != nil {
			e.maybeLogProgress(s)

			if s.DecisionLevel() == 0 {
				e.closeEpoch(true)
				return e.result(Unsat)
			}

			learned, backtrackLevel, _ := s.Analyze(conflict)
			s.Backjump(backtrackLevel)
			lc := s.Learn(learned)
			if lc != nil {
				e.notifyClauseAdded(lc)
			}

			e.maybeRestart()

			if e.epochDue(s) {
				e.closeEpoch(false)
				e.openEpoch(s)
			}
			continue
		}

		lit, ok := e.active.Decide(s)
		if !ok {
			e.closeEpoch(true)
			return e.result(Sat)
		}
		s.Assume(lit)
	}
}

// openEpoch starts a new bandit epoch (RL mode, selecting the arm to branch
// with) or a new reporting window (baseline mode, same heuristic throughout).
func (e *Engine) openEpoch(s *sat.Solver) {
	if e.cfg.Mode == ModeRL {
		e.active = e.controller.Open(s)
		return
	}
	if e.window != nil {
		e.window.Open(s)
	}
}

func (e *Engine) epochDue(s *sat.Solver) bool {
	if e.cfg.Mode == ModeRL {
		return e.controller.Due(s)
	}
	return e.window != nil && e.window.Due(s)
}

// maybeLogProgress prints a one-line stdout progress report, throttled to
// once per 50 conflicts or every 2 seconds of wall-clock time, matching
// spec.md §7's observability contract: the core never logs to stderr, and
// all search progress is reported via throttled stdout prints plus the
// optional CSV log.
func (e *Engine) maybeLogProgress(s *sat.Solver) {
	conflicts := s.Conflicts()
	now := time.Now()
	if conflicts%progressLogEvery != 0 && now.Sub(e.lastLog) < progressLogInterval {
		return
	}
	e.lastLog = now
	fmt.Printf("c lvl=%d conf=%d dec=%d prop=%d rest=%d heur=%s\n",
		s.DecisionLevel(), conflicts, s.Decisions(), s.Propagations(), s.Restarts(), e.active.Name())
}

func (e *Engine) maybeRestart() {
	r := e.cfg.RestartInterval
	if r <= 0 {
		return
	}
	s := e.solver
	if s.Conflicts() > 0 && s.Conflicts()%r == 0 && s.DecisionLevel() > 0 {
		s.Restart()
	}
}

// closeEpoch ends the current epoch (RL) or reporting window (baseline) and
// logs it, if a logger is configured. solved indicates the solve terminated
// during this window.
func (e *Engine) closeEpoch(solved bool) {
	var row epoch.Row
	switch {
	case e.cfg.Mode == ModeRL:
		row = e.controller.Close(e.solver, solved)
	case e.window != nil:
		row = e.window.Close(e.solver)
	default:
		return
	}
	if e.cfg.Logger != nil {
		_ = e.cfg.Logger.Log(row) // logging failures must never abort a solve
	}
}

func (e *Engine) result(status Status) Result {
	s := e.solver
	res := Result{
		Status:       status,
		Conflicts:    s.Conflicts(),
		Decisions:    s.Decisions(),
		Propagations: s.Propagations(),
		Restarts:     s.Restarts(),
	}
	if status == Sat {
		model := make([]bool, s.NumVars()+1)
		for v := 1; v <= s.NumVars(); v++ {
			model[v] = s.VarValue(v) == sat.True
		}
		res.Model = model
	}
	return res
}
