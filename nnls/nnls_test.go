package nnls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSolveUnconstrainedCaseMatchesLeastSquares(t *testing.T) {
	// A well-conditioned system whose least squares solution is already
	// non-negative; NNLS should reproduce it closely.
	a := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	b := mat.NewVecDense(3, []float64{1, 2, 3})

	x, residual := Solve(a, b)
	assert.InDelta(t, 1.0, x.AtVec(0), 1e-6)
	assert.InDelta(t, 2.0, x.AtVec(1), 1e-6)
	assert.InDelta(t, 0.0, residual, 1e-6)
}

func TestSolveEnforcesNonNegativity(t *testing.T) {
	// The unconstrained least squares solution here has a negative
	// component; NNLS must clamp it to zero rather than return it.
	a := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 2,
	})
	b := mat.NewVecDense(2, []float64{1, -1})

	x, _ := Solve(a, b)
	assert.GreaterOrEqual(t, x.AtVec(0), -1e-9)
	assert.GreaterOrEqual(t, x.AtVec(1), -1e-9)
}

func TestSolveExactlyFittableSystem(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{
		2, 0,
		0, 3,
	})
	b := mat.NewVecDense(2, []float64{4, 9})

	x, residual := Solve(a, b)
	assert.InDelta(t, 2.0, x.AtVec(0), 1e-8)
	assert.InDelta(t, 3.0, x.AtVec(1), 1e-8)
	assert.InDelta(t, 0.0, residual, 1e-8)
}
