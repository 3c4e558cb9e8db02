// Package epoch drives the online bandit controller: it opens and closes
// fixed-size windows of conflicts, extracts the feature context at the
// boundary, and feeds the resulting reward back into the bandit so the next
// window's heuristic choice can improve on the last.
package epoch

import (
	"time"

	"github.com/hartert-lab/satbandit/internal/bandit"
	"github.com/hartert-lab/satbandit/internal/features"
	"github.com/hartert-lab/satbandit/internal/heuristics"
	"github.com/hartert-lab/satbandit/internal/sat"
)

// DefaultSize is the number of conflicts an epoch spans before it closes and
// a new arm is selected.
const DefaultSize = 50

// DefaultAlpha is the LinUCB exploration coefficient.
const DefaultAlpha = 0.3

// Row is one closed epoch's bookkeeping, suitable for CSV logging. HasReward
// is false for baseline (fixed-heuristic) runs, which have no bandit to
// reward; the logger then writes an empty reward column.
type Row struct {
	Epoch         int64
	Heuristic     string
	Reward        float64
	HasReward     bool
	DConflicts    int64
	DDecisions    int64
	DPropagations int64
	AvgLBD        float64
	Conflicts     int64
	Decisions     int64
	Propagations  int64
	Restarts      int64
	Context       []float64
}

// Controller owns the bandit and the set of heuristics it chooses between.
// The solver itself is stateless with respect to epochs; Controller tracks
// everything needed to compute deltas across a window.
type Controller struct {
	heuristics []heuristics.Heuristic
	agent      *bandit.LinUCB
	size       int64

	index int64

	startConflicts int64
	startDecisions int64
	startPropagations int64
	startTime      time.Time
	prevAvgLBD     float64

	lastArm     int
	lastContext []float64
}

// NewController returns a controller cycling through hs, with epochs of the
// given size (conflicts per window) and the given LinUCB exploration alpha.
func NewController(hs []heuristics.Heuristic, size int64, alpha float64) *Controller {
	return &Controller{
		heuristics: hs,
		agent:      bandit.New(len(hs), features.Dim, alpha),
		size:       size,
	}
}

// Heuristics returns the heuristics the controller cycles between, in arm
// order.
func (c *Controller) Heuristics() []heuristics.Heuristic { return c.heuristics }

// Due reports whether the current epoch has run long enough (in conflicts)
// to close, given the solver's current total conflict count.
func (c *Controller) Due(s *sat.Solver) bool {
	return s.Conflicts()-c.startConflicts >= c.size
}

// Open starts a new epoch: it snapshots the solver's running totals,
// extracts the boundary context (with zero deltas, matching the context
// used at the very start of the solve) and selects the arm to use for the
// window. It returns the heuristic the engine should now branch with.
func (c *Controller) Open(s *sat.Solver) heuristics.Heuristic {
	c.startConflicts = s.Conflicts()
	c.startDecisions = s.Decisions()
	c.startPropagations = s.Propagations()
	c.startTime = time.Now()
	c.prevAvgLBD = avgLBD(s.RecentLBD())

	ctx := features.Extract(s, features.Delta{})
	arm := c.agent.Select(ctx)
	c.lastArm = arm
	c.lastContext = ctx

	return c.heuristics[arm]
}

// CurrentArm returns the index of the heuristic selected by the most recent
// Open call.
func (c *Controller) CurrentArm() int { return c.lastArm }

// Close ends the current epoch, updates the bandit with the observed
// reward and returns a Row describing the window for logging. solved
// indicates the solve terminated (SAT or UNSAT) during this window, which
// adds a completion bonus to the reward.
func (c *Controller) Close(s *sat.Solver, solved bool) Row {
	dConf := s.Conflicts() - c.startConflicts
	dDec := s.Decisions() - c.startDecisions
	dProp := s.Propagations() - c.startPropagations
	elapsed := time.Since(c.startTime).Seconds()

	currAvgLBD := avgLBD(s.RecentLBD())
	reward := computeReward(dConf, dDec, dProp, c.prevAvgLBD, currAvgLBD, solved)

	c.agent.Update(c.lastArm, c.lastContext, reward)

	row := Row{
		Epoch:         c.index,
		Heuristic:     c.heuristics[c.lastArm].Name(),
		Reward:        reward,
		HasReward:     true,
		DConflicts:    dConf,
		DDecisions:    dDec,
		DPropagations: dProp,
		AvgLBD:        currAvgLBD,
		Conflicts:     s.Conflicts(),
		Decisions:     s.Decisions(),
		Propagations:  s.Propagations(),
		Restarts:      s.Restarts(),
		Context:       c.lastContext,
	}
	c.index++
	_ = elapsed // elapsed time is informative only; the reward formula does not use it directly
	return row
}

// computeReward combines throughput and learned-clause-quality signals into
// a single scalar. The LBD term rewards windows whose average LBD improved
// relative to the window before it, which requires prevAvgLBD to be
// captured strictly before currAvgLBD (see Controller.Open/Close).
func computeReward(dConf, dDec, dProp int64, prevAvgLBD, currAvgLBD float64, solved bool) float64 {
	r := 1.0 / (1.0 + float64(dConf))
	denom := dDec
	if denom < 1 {
		denom = 1
	}
	r += 0.01 * (float64(dProp) / float64(denom))
	if prevAvgLBD > 0 && currAvgLBD > 0 {
		improvement := (prevAvgLBD - currAvgLBD) / prevAvgLBD
		if improvement > 0 {
			r += 0.05 * improvement
		}
	}
	if solved {
		r += 1.0
	}
	return r
}

// Window tracks fixed-conflict-size reporting windows for a baseline
// (fixed-heuristic) run, which has no bandit arm to select or reward but
// still reports the same per-window CSV columns, minus the reward.
type Window struct {
	heuristicName string
	size          int64
	index         int64

	startConflicts    int64
	startDecisions    int64
	startPropagations int64
}

// NewWindow returns a baseline window reporter of the given size (conflicts
// per window) for the fixed heuristic named heuristicName.
func NewWindow(heuristicName string, size int64) *Window {
	return &Window{heuristicName: heuristicName, size: size}
}

// Open snapshots the solver's running totals at the start of a window.
func (w *Window) Open(s *sat.Solver) {
	w.startConflicts = s.Conflicts()
	w.startDecisions = s.Decisions()
	w.startPropagations = s.Propagations()
}

// Due reports whether the current window has run long enough to close.
func (w *Window) Due(s *sat.Solver) bool {
	return s.Conflicts()-w.startConflicts >= w.size
}

// Close ends the current window and returns a Row with HasReward=false (no
// bandit backs a baseline run) for logging.
func (w *Window) Close(s *sat.Solver) Row {
	row := Row{
		Epoch:         w.index,
		Heuristic:     w.heuristicName,
		HasReward:     false,
		DConflicts:    s.Conflicts() - w.startConflicts,
		DDecisions:    s.Decisions() - w.startDecisions,
		DPropagations: s.Propagations() - w.startPropagations,
		AvgLBD:        avgLBD(s.RecentLBD()),
		Conflicts:     s.Conflicts(),
		Decisions:     s.Decisions(),
		Propagations:  s.Propagations(),
		Restarts:      s.Restarts(),
		Context:       features.Extract(s, features.Delta{}),
	}
	w.index++
	return row
}

func avgLBD(recent []int) float64 {
	if len(recent) == 0 {
		return 0
	}
	sum := 0
	for _, v := range recent {
		sum += v
	}
	return float64(sum) / float64(len(recent))
}
