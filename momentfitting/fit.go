package momentfitting

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/nnls"
	"gonum.org/v1/gonum/mat"
)

// buildFittingMatrix assembles A ∈ R^{N x M} with A_{r,j} = φ_r(q_j),
// evaluated at each candidate point's parametric coordinate.
func buildFittingMatrix(points []element.IntegrationPoint, box Box, orders Orders) *mat.Dense {
	indices := tensorIndices(orders)
	n, m := len(indices), len(points)
	a := mat.NewDense(n, m, nil)
	for j, p := range points {
		local := box.ToParametric(p.Position)
		for r, idx := range indices {
			a.Set(r, j, evalBasis(idx, local, box))
		}
	}
	return a
}

// solveWeights solves the NNLS problem min_{w>=0} ||A w - m||_2 at the
// given candidate points and returns the weights along with the
// normalized residual r = ||A w - m|| / N, per spec.md §4.5.
func solveWeights(constantTerms []float64, points []element.IntegrationPoint, box Box, orders Orders) (weights []float64, residual float64) {
	n := orders.NumFunctions()
	a := buildFittingMatrix(points, box, orders)
	b := mat.NewVecDense(n, constantTerms)

	x, resid := nnls.Solve(a, b)
	// Divide by the parametric->physical Jacobian determinant now so every
	// weight a caller ever observes is already in parametric units; the FE
	// assembly consuming these weights multiplies by that determinant
	// again when it walks the physical cell.
	det := box.JacobianDeterminant()
	weights = make([]float64, len(points))
	for i := range weights {
		weights[i] = x.AtVec(i) / det
	}
	return weights, resid / float64(n)
}
