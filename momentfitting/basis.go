// Package momentfitting builds the polynomial moment vector of a trimmed
// cell via the divergence theorem, assembles the NNLS fitting problem at a
// set of candidate interior points, and iteratively eliminates points
// down to a minimal positive-weight cubature rule.
package momentfitting

import (
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/polynomial"
)

// Orders is the requested polynomial order (p_u,p_v,p_w) per axis.
type Orders struct {
	U, V, W int
}

// NumFunctions returns N=(p_u+1)(p_v+1)(p_w+1), the moment vector length
// and the target support size after the first elimination round.
func (o Orders) NumFunctions() int {
	return (o.U + 1) * (o.V + 1) * (o.W + 1)
}

// Box carries a cell's physical bounding box and its parametric box (equal
// to the physical box unless a b-spline mapping is active), and derives
// the per-axis physical/parametric Jacobian used both to build the
// divergence-theorem vector field and to rescale the final weights.
type Box struct {
	PhysicalLower, PhysicalUpper   geometry3d.Point
	ParametricLower, ParametricUpper geometry3d.Point
}

// JacobianAxis returns d(physical)/d(parametric) along axis (0,1,2).
func (b Box) JacobianAxis(axis int) float64 {
	physSize := b.PhysicalUpper.Component(axis) - b.PhysicalLower.Component(axis)
	paramSize := b.ParametricUpper.Component(axis) - b.ParametricLower.Component(axis)
	return physSize / paramSize
}

// JacobianDeterminant returns the determinant of the (diagonal)
// parametric->physical Jacobian, i.e. the product of the three axis
// scale factors.
func (b Box) JacobianDeterminant() float64 {
	return b.JacobianAxis(0) * b.JacobianAxis(1) * b.JacobianAxis(2)
}

// ToParametric maps a physical point into the cell's parametric box via
// an affine per-axis map.
func (b Box) ToParametric(p geometry3d.Point) geometry3d.Point {
	return geometry3d.Point{
		X: mapAxis(p.X, b.PhysicalLower.X, b.PhysicalUpper.X, b.ParametricLower.X, b.ParametricUpper.X),
		Y: mapAxis(p.Y, b.PhysicalLower.Y, b.PhysicalUpper.Y, b.ParametricLower.Y, b.ParametricUpper.Y),
		Z: mapAxis(p.Z, b.PhysicalLower.Z, b.PhysicalUpper.Z, b.ParametricLower.Z, b.ParametricUpper.Z),
	}
}

func mapAxis(x, physLo, physHi, paramLo, paramHi float64) float64 {
	t := (x - physLo) / (physHi - physLo)
	return paramLo + t*(paramHi-paramLo)
}

// basisIndex enumerates the tensor multi-indices (α,β,γ) in the same
// row-major order used by both the constant-term vector and the fitting
// matrix's rows, so the two always align.
type basisIndex struct{ alpha, beta, gamma int }

func tensorIndices(o Orders) []basisIndex {
	idx := make([]basisIndex, 0, o.NumFunctions())
	for a := 0; a <= o.U; a++ {
		for b := 0; b <= o.V; b++ {
			for c := 0; c <= o.W; c++ {
				idx = append(idx, basisIndex{a, b, c})
			}
		}
	}
	return idx
}

// evalBasis evaluates φ_{α,β,γ}(x̂,ŷ,ẑ) at the parametric coordinate p,
// using the shifted Legendre basis on box's parametric extent per axis.
func evalBasis(idx basisIndex, p geometry3d.Point, box Box) float64 {
	return polynomial.Eval(p.X, idx.alpha, box.ParametricLower.X, box.ParametricUpper.X) *
		polynomial.Eval(p.Y, idx.beta, box.ParametricLower.Y, box.ParametricUpper.Y) *
		polynomial.Eval(p.Z, idx.gamma, box.ParametricLower.Z, box.ParametricUpper.Z)
}
