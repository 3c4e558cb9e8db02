// Package bandit implements a disjoint LinUCB contextual bandit: one ridge
// regression model per arm, selected by upper-confidence-bound score and
// updated in closed form via the Sherman-Morrison identity.
package bandit

import (
	"math"
	"math/rand"
)

// LinUCB holds one (A^-1, b) pair per arm, where A^-1 is a dim x dim matrix
// and b a length-dim vector. A is implicitly I + sum of x*x^T over the
// contexts played on that arm; keeping its inverse means Update never
// inverts a matrix on the hot path.
type LinUCB struct {
	nArms int
	dim   int
	alpha float64

	aInv [][][]float64 // aInv[arm][i][j]
	b    [][]float64   // b[arm][i]

	rng *rand.Rand
}

// New returns a LinUCB bandit with nArms arms over a dim-dimensional
// context, each initialized to the identity prior (A^-1 = I, b = 0).
func New(nArms, dim int, alpha float64) *LinUCB {
	lu := &LinUCB{
		nArms: nArms,
		dim:   dim,
		alpha: alpha,
		aInv:  make([][][]float64, nArms),
		b:     make([][]float64, nArms),
		rng:   rand.New(rand.NewSource(1)),
	}
	for a := 0; a < nArms; a++ {
		lu.aInv[a] = identity(dim)
		lu.b[a] = make([]float64, dim)
	}
	return lu
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(v))
	for i, row := range m {
		sum := 0.0
		for j, vj := range v {
			sum += row[j] * vj
		}
		out[i] = sum
	}
	return out
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Select returns the arm with the highest UCB score for context x, breaking
// ties uniformly at random (matching the reward-neutral tie policy of the
// reference implementation, so an unbumped bandit does not always favor the
// lowest-indexed arm).
func (lu *LinUCB) Select(x []float64) int {
	scores := make([]float64, lu.nArms)
	best := math.Inf(-1)
	for a := 0; a < lu.nArms; a++ {
		theta := matVec(lu.aInv[a], lu.b[a])
		exploit := dot(theta, x)
		quad := dot(x, matVec(lu.aInv[a], x))
		if quad < 1e-12 {
			quad = 1e-12
		}
		explore := lu.alpha * math.Sqrt(quad)
		scores[a] = exploit + explore
		if scores[a] > best {
			best = scores[a]
		}
	}

	var tied []int
	for a, s := range scores {
		if s == best {
			tied = append(tied, a)
		}
	}
	return tied[lu.rng.Intn(len(tied))]
}

// Update folds the observed (context, reward) pair for arm into its ridge
// regression state using the Sherman-Morrison rank-1 update, avoiding a
// fresh matrix inversion.
func (lu *LinUCB) Update(arm int, x []float64, reward float64) {
	aInv := lu.aInv[arm]
	aInvX := matVec(aInv, x)

	denom := 1.0 + dot(x, aInvX)
	if denom < 1e-12 {
		denom = 1e-12
	}

	for i := range aInv {
		for j := range aInv[i] {
			aInv[i][j] -= (aInvX[i] * aInvX[j]) / denom
		}
	}

	bArm := lu.b[arm]
	for i := range bArm {
		bArm[i] += reward * x[i]
	}
}

// NArms and Dim report the bandit's configured dimensions.
func (lu *LinUCB) NArms() int { return lu.nArms }
func (lu *LinUCB) Dim() int   { return lu.dim }
