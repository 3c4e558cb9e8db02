// Package benchmark runs the engine over a directory of CNF instances under
// a per-instance timeout and collects the results for CSV reporting. It
// replaces the reference implementation's signal.alarm-based interrupt with
// a context.Context deadline, which the solver checks cooperatively between
// propagation rounds instead of being asynchronously interrupted mid-loop.
package benchmark

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/hartert-lab/satbandit/internal/dimacs"
	"github.com/hartert-lab/satbandit/internal/engine"
)

// InstanceResult is one (instance, mode) run's outcome.
type InstanceResult struct {
	Instance     string
	Mode         string
	Heuristic    string
	Status       string
	Seconds      float64
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Restarts     int64
}

// Config controls a benchmark sweep over a directory of .cnf files.
type Config struct {
	CNFDir            string
	Timeout           time.Duration
	EpochSize         int64
	RestartInterval   int64
	BaselineHeuristic string
	Modes             []engine.Mode
}

// Instances returns the sorted list of .cnf files under dir.
func Instances(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cnf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// RunInstance loads cnfPath and solves it once under the given mode,
// returning its result. A solve that does not finish before timeout reports
// status TIMEOUT rather than an error.
func RunInstance(cnfPath string, mode engine.Mode, cfg Config) InstanceResult {
	name := filepath.Base(cnfPath)
	res := InstanceResult{
		Instance:  name,
		Mode:      string(mode),
		Heuristic: cfg.BaselineHeuristic,
		Status:    "TIMEOUT",
		Seconds:   cfg.Timeout.Seconds(),
	}

	s, err := dimacs.Load(cnfPath, false)
	if err != nil {
		res.Status = fmt.Sprintf("ERROR: %s", err)
		return res
	}

	eng, err := engine.New(s, engine.Config{
		Mode:              mode,
		BaselineHeuristic: cfg.BaselineHeuristic,
		EpochSize:         cfg.EpochSize,
		RestartInterval:   cfg.RestartInterval,
	})
	if err != nil {
		res.Status = fmt.Sprintf("ERROR: %s", err)
		return res
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	t0 := time.Now()
	result := eng.Solve(ctx)
	elapsed := time.Since(t0)

	res.Seconds = elapsed.Seconds()
	res.Conflicts = result.Conflicts
	res.Decisions = result.Decisions
	res.Propagations = result.Propagations
	res.Restarts = result.Restarts

	switch result.Status {
	case engine.Sat:
		res.Status = "SAT"
	case engine.Unsat:
		res.Status = "UNSAT"
	default:
		res.Status = "TIMEOUT"
	}

	return res
}

// WriteResults writes results to path in the same column order the
// reference benchmark harness uses.
func WriteResults(path string, results []InstanceResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"instance", "mode", "heuristic", "status", "time", "conflicts", "decisions", "propagations", "restarts"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Instance,
			r.Mode,
			r.Heuristic,
			r.Status,
			strconv.FormatFloat(r.Seconds, 'f', 2, 64),
			strconv.FormatInt(r.Conflicts, 10),
			strconv.FormatInt(r.Decisions, 10),
			strconv.FormatInt(r.Propagations, 10),
			strconv.FormatInt(r.Restarts, 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
