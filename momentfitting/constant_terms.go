package momentfitting

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/polynomial"
)

// ComputeConstantTerms builds the moment vector m by the divergence
// theorem: each volume integral m_{α,β,γ} = ∫_D φ_{α,β,γ} dV is converted
// to a boundary integral over D's surface using the vector field
// F = (Φ_α·L_β·L_γ, L_α·Φ_β·L_γ, L_α·L_β·Φ_γ), whose divergence is exactly
// 3·φ_{α,β,γ}; m = (1/3)∮ F·n dS, evaluated by summing over the supplied
// boundary integration points.
func ComputeConstantTerms(boundaryPoints []element.BoundaryIntegrationPoint, box Box, orders Orders) []float64 {
	indices := tensorIndices(orders)
	m := make([]float64, len(indices))

	jx, jy, jz := box.JacobianAxis(0), box.JacobianAxis(1), box.JacobianAxis(2)

	fx := make([]float64, orders.U+1)
	fxInt := make([]float64, orders.U+1)
	fy := make([]float64, orders.V+1)
	fyInt := make([]float64, orders.V+1)
	fz := make([]float64, orders.W+1)
	fzInt := make([]float64, orders.W+1)

	for _, bp := range boundaryPoints {
		local := box.ToParametric(bp.Position)
		ax, bx := box.ParametricLower.X, box.ParametricUpper.X
		ay, by := box.ParametricLower.Y, box.ParametricUpper.Y
		az, bz := box.ParametricLower.Z, box.ParametricUpper.Z

		for i := 0; i <= orders.U; i++ {
			fx[i] = polynomial.Eval(local.X, i, ax, bx)
			fxInt[i] = polynomial.Integral(local.X, i, ax, bx)
		}
		for i := 0; i <= orders.V; i++ {
			fy[i] = polynomial.Eval(local.Y, i, ay, by)
			fyInt[i] = polynomial.Integral(local.Y, i, ay, by)
		}
		for i := 0; i <= orders.W; i++ {
			fz[i] = polynomial.Eval(local.Z, i, az, bz)
			fzInt[i] = polynomial.Integral(local.Z, i, az, bz)
		}

		weight := bp.Weight / 3.0
		for k, idx := range indices {
			vx := fxInt[idx.alpha] * fy[idx.beta] * fz[idx.gamma]
			vy := fx[idx.alpha] * fyInt[idx.beta] * fz[idx.gamma]
			vz := fx[idx.alpha] * fy[idx.beta] * fzInt[idx.gamma]
			integrand := bp.Normal.X*vx*jx + bp.Normal.Y*vy*jy + bp.Normal.Z*vz*jz
			m[k] += integrand * weight
		}
	}
	return m
}
