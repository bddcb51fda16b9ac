// Package nnls implements the Lawson-Hanson active-set algorithm for the
// non-negative least squares problem: minimize ||Ax-b|| subject to x>=0.
package nnls

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxIterations bounds the active-set outer loop, matching the defensive
// iteration caps used throughout the moment-fitting solver this package
// backs.
const MaxIterations = 3 * 1024

// tolerance below which a Lagrange multiplier or solution component is
// treated as zero.
const tolerance = 1e-10

// Solve finds x>=0 minimizing ||A*x-b||_2 and returns x together with the
// residual norm ||A*x-b||_2, following Lawson & Hanson's active-set
// method: at each step the most-violating passive-set candidate is moved
// into the active set, the unconstrained least squares problem is
// resolved on the active columns, and any resulting negative components
// are driven back to the feasible boundary before the next candidate is
// admitted.
func Solve(a *mat.Dense, b *mat.VecDense) (x *mat.VecDense, residual float64) {
	m, n := a.Dims()
	x = mat.NewVecDense(n, nil)
	active := make([]bool, n) // true once column j is in the active (unconstrained) set
	w := mat.NewVecDense(n, nil)

	updateGradient := func() {
		resid := mat.NewVecDense(m, nil)
		resid.MulVec(a, x)
		resid.SubVec(b, resid)
		w.MulVec(a.T(), resid)
	}
	updateGradient()

	for iter := 0; iter < MaxIterations; iter++ {
		// Termination: no passive-set column has a positive gradient.
		bestJ, bestW := -1, tolerance
		for j := 0; j < n; j++ {
			if !active[j] && w.AtVec(j) > bestW {
				bestW, bestJ = w.AtVec(j), j
			}
		}
		if bestJ < 0 {
			break
		}
		active[bestJ] = true

		for inner := 0; inner < MaxIterations; inner++ {
			cols := activeColumns(active)
			z := solveActiveLeastSquares(a, b, cols)

			allFeasible := true
			for _, zi := range z {
				if zi <= 0 {
					allFeasible = false
					break
				}
			}
			if allFeasible {
				for k, j := range cols {
					x.SetVec(j, z[k])
				}
				break
			}

			alpha := 1.0
			for k, j := range cols {
				if z[k] <= 0 {
					candidate := x.AtVec(j) / (x.AtVec(j) - z[k])
					if candidate < alpha {
						alpha = candidate
					}
				}
			}
			for k, j := range cols {
				x.SetVec(j, x.AtVec(j)+alpha*(z[k]-x.AtVec(j)))
			}
			for _, j := range cols {
				if x.AtVec(j) <= tolerance {
					x.SetVec(j, 0)
					active[j] = false
				}
			}
		}
		updateGradient()
	}

	resid := mat.NewVecDense(m, nil)
	resid.MulVec(a, x)
	resid.SubVec(b, resid)
	residual = mat.Norm(resid, 2)
	return x, residual
}

func activeColumns(active []bool) []int {
	var cols []int
	for j, on := range active {
		if on {
			cols = append(cols, j)
		}
	}
	return cols
}

// solveActiveLeastSquares solves the unconstrained least squares problem
// restricted to the given columns of a by QR factorization, falling back to
// the normal equations when the QR solve fails, and returns the solution
// component for each requested column in order.
func solveActiveLeastSquares(a *mat.Dense, b *mat.VecDense, cols []int) []float64 {
	m, _ := a.Dims()
	k := len(cols)
	if k == 0 {
		return nil
	}
	sub := mat.NewDense(m, k, nil)
	for c, j := range cols {
		sub.SetCol(c, mat.Col(nil, j, a))
	}

	var qr mat.QR
	qr.Factorize(sub)
	var z mat.VecDense
	if err := qr.SolveVecTo(&z, false, b); err != nil {
		// Rank-deficient active set: fall back to the normal equations,
		// which still produce a usable (if not minimum-norm) solution.
		var ata mat.Dense
		ata.Mul(sub.T(), sub)
		var atb mat.VecDense
		atb.MulVec(sub.T(), b)
		var lu mat.LU
		lu.Factorize(&ata)
		z.Reset()
		z.ReuseAsVec(k)
		lu.SolveVecTo(&z, false, &atb)
	}
	out := make([]float64, k)
	for i := range out {
		out[i] = z.AtVec(i)
	}
	return out
}

// Norm2 is a small helper exposed for callers that
// need the plain Euclidean norm of a raw slice without allocating a
// mat.VecDense.
func Norm2(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
