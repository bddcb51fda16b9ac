package momentfitting

import (
	"math"
	"testing"

	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/gaussrule"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitBox is a cell with no active parametric mapping: physical box and
// parametric box coincide, so the Jacobian is the identity.
func unitBox() Box {
	lo := geometry3d.Point{X: 0, Y: 0, Z: 0}
	hi := geometry3d.Point{X: 1, Y: 1, Z: 1}
	return Box{PhysicalLower: lo, PhysicalUpper: hi, ParametricLower: lo, ParametricUpper: hi}
}

// cubeBoundaryPoints builds the boundary integration points of the unit
// cube [0,1]^3 by placing a tensor Gauss rule on each of the 6 faces.
func cubeBoundaryPoints(box Box, order int) []element.BoundaryIntegrationPoint {
	var out []element.BoundaryIntegrationPoint
	faces := []struct {
		axis   int
		value  float64
		normal geometry3d.Point
	}{
		{0, box.PhysicalLower.X, geometry3d.Point{X: -1}},
		{0, box.PhysicalUpper.X, geometry3d.Point{X: 1}},
		{1, box.PhysicalLower.Y, geometry3d.Point{Y: -1}},
		{1, box.PhysicalUpper.Y, geometry3d.Point{Y: 1}},
		{2, box.PhysicalLower.Z, geometry3d.Point{Z: -1}},
		{2, box.PhysicalUpper.Z, geometry3d.Point{Z: 1}},
	}
	for _, f := range faces {
		u, v := (f.axis+1)%3, (f.axis+2)%3
		lo, hi := [3]float64{box.PhysicalLower.X, box.PhysicalLower.Y, box.PhysicalLower.Z}, [3]float64{box.PhysicalUpper.X, box.PhysicalUpper.Y, box.PhysicalUpper.Z}
		rule := gaussrule.TensorProduct3D(order, order, 1, lo[u], hi[u], lo[v], hi[v], 0, 1)
		for _, p := range rule {
			pos := [3]float64{}
			coord := [3]float64{p.X, p.Y, 0}
			pos[f.axis] = f.value
			pos[u] = coord[0]
			pos[v] = coord[1]
			out = append(out, element.BoundaryIntegrationPoint{
				Position: geometry3d.Point{X: pos[0], Y: pos[1], Z: pos[2]},
				Normal:   f.normal,
				Weight:   p.W,
			})
		}
	}
	return out
}

func TestComputeConstantTermsMatchesUnitCubeMoments(t *testing.T) {
	box := unitBox()
	orders := Orders{U: 1, V: 1, W: 1}
	bps := cubeBoundaryPoints(box, 4)
	m := ComputeConstantTerms(bps, box, orders)

	// φ_{0,0,0} = L_0*L_0*L_0 = 1 everywhere: its moment is the cube volume.
	require.Len(t, m, 8)
	assert.InDelta(t, 1.0, m[0], 1e-8)
}

func TestSolveWeightsReproducesTensorGaussOnFullCell(t *testing.T) {
	box := unitBox()
	orders := Orders{U: 1, V: 1, W: 1}
	bps := cubeBoundaryPoints(box, 4)
	m := ComputeConstantTerms(bps, box, orders)

	candidates := gaussrule.TensorProduct3D(2, 2, 2, 0, 1, 0, 1, 0, 1)
	points := make([]element.IntegrationPoint, len(candidates))
	for i, c := range candidates {
		points[i] = element.IntegrationPoint{Position: geometry3d.Point{X: c.X, Y: c.Y, Z: c.Z}}
	}

	weights, residual := solveWeights(m, points, box, orders)
	assert.Less(t, residual, 1e-6)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6) // total weight recovers the cube's volume
}

func TestEliminateShrinksToAtMostNumFunctionsOnFirstRound(t *testing.T) {
	box := unitBox()
	orders := Orders{U: 1, V: 1, W: 1} // N=8
	bps := cubeBoundaryPoints(box, 4)
	m := ComputeConstantTerms(bps, box, orders)

	candidates := gaussrule.TensorProduct3D(3, 3, 3, 0, 1, 0, 1, 0, 1)
	points := make([]element.IntegrationPoint, len(candidates))
	for i, c := range candidates {
		points[i] = element.IntegrationPoint{Position: geometry3d.Point{X: c.X, Y: c.Y, Z: c.Z}}
	}

	survivors, residual := Eliminate(m, points, box, orders, 1e-8)
	assert.LessOrEqual(t, len(survivors), orders.NumFunctions())
	assert.False(t, math.IsNaN(residual))
	for _, p := range survivors {
		assert.Greater(t, p.Weight, 0.0)
	}
}
