// Package metrics writes per-epoch solver statistics to CSV, in the same
// append-with-header-once-per-file style as the reference implementation's
// logger.
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hartert-lab/satbandit/internal/epoch"
)

// EpochLogger appends epoch.Row values to a CSV file, writing the header
// exactly once: on first use against a file that doesn't exist yet or is
// empty.
type EpochLogger struct {
	path    string
	header  []string
	wrote   bool
}

// NewEpochLogger returns a logger writing to path, creating parent
// directories as needed. contextDim is the length of each row's feature
// context, used to name the c0..cN columns.
func NewEpochLogger(path string, contextDim int) (*EpochLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	header := []string{
		"epoch", "heuristic", "reward",
		"d_conflicts", "d_decisions", "d_propagations", "avg_lbd",
		"conflicts", "decisions", "propagations", "restarts",
	}
	for i := 0; i < contextDim; i++ {
		header = append(header, fmt.Sprintf("c%d", i))
	}

	l := &EpochLogger{path: path, header: header}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		l.wrote = true
	}
	return l, nil
}

// Log appends one row, writing the header first if this is the first write
// to a new or empty file.
func (l *EpochLogger) Log(row epoch.Row) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !l.wrote {
		if err := w.Write(l.header); err != nil {
			return err
		}
		l.wrote = true
	}

	reward := ""
	if row.HasReward {
		reward = formatFloat(row.Reward)
	}

	record := []string{
		strconv.FormatInt(row.Epoch, 10),
		row.Heuristic,
		reward,
		strconv.FormatInt(row.DConflicts, 10),
		strconv.FormatInt(row.DDecisions, 10),
		strconv.FormatInt(row.DPropagations, 10),
		formatFloat(row.AvgLBD),
		strconv.FormatInt(row.Conflicts, 10),
		strconv.FormatInt(row.Decisions, 10),
		strconv.FormatInt(row.Propagations, 10),
		strconv.FormatInt(row.Restarts, 10),
	}
	for _, c := range row.Context {
		record = append(record, formatFloat(c))
	}

	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
