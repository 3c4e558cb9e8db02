// Package features extracts the 11-dimensional context vector the bandit
// conditions its arm selection on, from the solver's running statistics.
package features

import (
	"math"

	"github.com/hartert-lab/satbandit/internal/sat"
)

// Dim is the length of the context vector Extract produces.
const Dim = 11

// Delta carries the statistics accumulated since the current epoch opened:
// three counts and the elapsed wall-clock seconds, all of them >= 0.
type Delta struct {
	Conflicts    int64
	Decisions    int64
	Propagations int64
	ElapsedSecs  float64
}

// Extract computes the context vector for s given the deltas accumulated so
// far in the current epoch. Every component is clamped to [0, 1].
func Extract(s *sat.Solver, d Delta) []float64 {
	avgLBD, varLBD, glueRatio := lbdStats(s.RecentLBD())

	elapsed := d.ElapsedSecs
	if elapsed < 1e-3 {
		elapsed = 1e-3
	}
	confRate := float64(d.Conflicts) / elapsed

	meanAct, stdAct, maxAct := activityStats(s)
	if maxAct < 1e-9 {
		maxAct = 1e-9
	}
	meanActNorm := meanAct / maxAct
	stdActNorm := stdAct / maxAct

	totalClauses := s.NumClauses()
	learned := s.NumLearned()
	learnedRatio := 0.0
	if totalClauses > 0 {
		learnedRatio = float64(learned) / float64(totalClauses)
	}

	clauseVarRatio := 0.0
	if s.NumVars() > 0 {
		clauseVarRatio = float64(totalClauses) / float64(s.NumVars())
	}

	restartsRate := 0.0
	if s.Conflicts() > 0 {
		restartsRate = float64(s.Restarts()) / float64(s.Conflicts())
	}

	decisionsDenom := d.Decisions
	if decisionsDenom < 1 {
		decisionsDenom = 1
	}
	propRate := float64(d.Propagations) / float64(decisionsDenom)

	return []float64{
		clamp01(avgLBD / 20.0),
		clamp01(varLBD / 100.0),
		clamp01(glueRatio),
		clamp01(confRate / 100.0),
		clamp01(meanActNorm),
		clamp01(stdActNorm),
		clamp01(learnedRatio),
		clamp01(clauseVarRatio / 10.0),
		clamp01(restartsRate),
		clamp01(propRate / 100.0),
		clamp01(s.SatisfiedRatio()),
	}
}

func lbdStats(recent []int) (avg, variance, glueRatio float64) {
	if len(recent) == 0 {
		return 0, 0, 0
	}
	sum := 0
	glue := 0
	for _, v := range recent {
		sum += v
		if v <= 2 {
			glue++
		}
	}
	avg = float64(sum) / float64(len(recent))
	sqSum := 0.0
	for _, v := range recent {
		diff := float64(v) - avg
		sqSum += diff * diff
	}
	variance = sqSum / float64(len(recent))
	glueRatio = float64(glue) / float64(len(recent))
	return avg, variance, glueRatio
}

func activityStats(s *sat.Solver) (mean, stddev, max float64) {
	n := s.NumVars()
	if n == 0 {
		return 0, 0, 1
	}
	sum := 0.0
	max = 0.0
	for v := 1; v <= n; v++ {
		a := s.Activity(v)
		sum += a
		if a > max {
			max = a
		}
	}
	mean = sum / float64(n)
	sqSum := 0.0
	for v := 1; v <= n; v++ {
		diff := s.Activity(v) - mean
		sqSum += diff * diff
	}
	stddev = math.Sqrt(math.Max(0, sqSum/float64(n)))
	if max == 0 {
		max = 1
	}
	return mean, stddev, max
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
