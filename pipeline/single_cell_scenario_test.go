package pipeline

import (
	"math"
	"testing"

	"github.com/embedquad/quadgen/brep"
	"github.com/embedquad/quadgen/config"
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cylinderMeshForPipeline builds a closed cylinder of the given radius
// spanning [zMin, zMax], discretized into segments facets, mirroring the
// construction brep's own geometry scenario tests use.
func cylinderMeshForPipeline(radius, zMin, zMax float64, segments int) *trianglemesh.TriangleMesh {
	var vertices []geometry3d.Point
	circle := func(z float64) int {
		base := len(vertices)
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			vertices = append(vertices, geometry3d.Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: z})
		}
		return base
	}
	bottomBase := circle(zMin)
	topBase := circle(zMax)
	bottomCenter := len(vertices)
	vertices = append(vertices, geometry3d.Point{X: 0, Y: 0, Z: zMin})
	topCenter := len(vertices)
	vertices = append(vertices, geometry3d.Point{X: 0, Y: 0, Z: zMax})

	var tris []trianglemesh.Triangle
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		bi, bj := bottomBase+i, bottomBase+j
		ti, tj := topBase+i, topBase+j
		tris = append(tris,
			trianglemesh.Triangle{bi, bj, tj},
			trianglemesh.Triangle{bi, tj, ti},
			trianglemesh.Triangle{bottomCenter, bj, bi},
			trianglemesh.Triangle{topCenter, ti, tj},
		)
	}
	return trianglemesh.New(vertices, tris, nil)
}

// TestSingleCylinderCellTrimmedVolumeAndPointBudget exercises the "single
// cylinder cell" scenario: a radius-1, height-2 cylinder sits inside a
// single background element sized so the cylinder is inscribed with
// margin on every side, giving exactly one trimmed cell. A dense boundary
// sampling target (min_num_boundary_triangles=5000, mapped to the finest
// symmetric triangle rule order) drives the moment-fitting synthesis
// toward the requested residual, and the eliminated rule's weights should
// sum to the cylinder's analytic volume without needing an excessive
// point count.
func TestSingleCylinderCellTrimmedVolumeAndPointBudget(t *testing.T) {
	radius, height := 1.0, 2.0
	mesh := cylinderMeshForPipeline(radius, 0, height, 96)
	op := brep.NewOperator(mesh)

	params := config.Defaults()
	params.InputFilename = "cylinder.stl"
	params.LowerBoundXYZ = [3]float64{-1.5, -1.5, -0.5}
	params.UpperBoundXYZ = [3]float64{1.5, 1.5, 2.5}
	params.LowerBoundUVW = params.LowerBoundXYZ
	params.UpperBoundUVW = params.UpperBoundXYZ
	params.NumberOfElements = [3]int{1, 1, 1}
	params.PolynomialOrder = [3]int{2, 2, 2}
	params.MinNumBoundaryTriangles = 5000
	params.MomentFittingResidual = 1e-4

	result, err := Run(params, op)
	require.NoError(t, err)

	require.Equal(t, 1, result.NumTrimmed)
	require.Equal(t, 0, result.NumInside)

	var total float64
	var numPoints int
	result.Container.Range(func(id int, e *element.Element) bool {
		if !e.IsTrimmed {
			return true
		}
		numPoints = len(e.Points)
		for _, p := range e.Points {
			assert.Greater(t, p.Weight, 0.0)
			total += p.Weight
		}
		return true
	})

	cylinderVolume := math.Pi * radius * radius * height
	assert.InDelta(t, cylinderVolume, total, cylinderVolume*0.05)
	assert.Greater(t, numPoints, 0)
	assert.LessOrEqual(t, numPoints, 27) // elimination keeps at most N=(2+1)^3 points
}

// enclosingCubeMesh builds a closed, outward-facing cube large enough to
// contain every cell of a grid entirely, so ClassifyCell reports every
// cell Inside and Run never touches the trimmed path.
func enclosingCubeMesh(h float64) *trianglemesh.TriangleMesh {
	v := []geometry3d.Point{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	quad := func(a, b, c, d int) []trianglemesh.Triangle {
		return []trianglemesh.Triangle{{a, b, c}, {a, c, d}}
	}
	var tris []trianglemesh.Triangle
	tris = append(tris, quad(0, 3, 2, 1)...)
	tris = append(tris, quad(4, 5, 6, 7)...)
	tris = append(tris, quad(0, 1, 5, 4)...)
	tris = append(tris, quad(2, 3, 7, 6)...)
	tris = append(tris, quad(0, 4, 7, 3)...)
	tris = append(tris, quad(1, 2, 6, 5)...)
	return trianglemesh.New(v, tris, nil)
}

// TestBSplineMeshGivesEachCellItsOwnParametricBox exercises the
// b_spline_mesh option: two Inside cells side by side along x get
// distinct ParametricBox values mapped from their own fractional index
// position into [lower_bound_uvw, upper_bound_uvw], not copies of their
// physical box.
func TestBSplineMeshGivesEachCellItsOwnParametricBox(t *testing.T) {
	op := brep.NewOperator(enclosingCubeMesh(10.0))

	params := config.Defaults()
	params.InputFilename = "block.stl"
	params.LowerBoundXYZ = [3]float64{0, 0, 0}
	params.UpperBoundXYZ = [3]float64{2, 1, 1}
	params.NumberOfElements = [3]int{2, 1, 1}
	params.PolynomialOrder = [3]int{1, 1, 1}
	params.BSplineMesh = true
	params.LowerBoundUVW = [3]float64{10, 20, 30}
	params.UpperBoundUVW = [3]float64{12, 21, 31}
	require.NoError(t, params.Validate())

	result, err := Run(params, op)
	require.NoError(t, err)
	require.Equal(t, 2, result.NumInside)
	require.Equal(t, 0, result.NumTrimmed)

	grid := gridFromParams(params)
	seen := 0
	result.Container.Range(func(id int, e *element.Element) bool {
		i, _, _ := grid.Coords(id)
		wantLowerX := 10.0 + float64(i)
		wantUpperX := wantLowerX + 1.0
		assert.InDelta(t, wantLowerX, e.ParametricBox.Lower.X, 1e-9)
		assert.InDelta(t, wantUpperX, e.ParametricBox.Upper.X, 1e-9)
		assert.InDelta(t, 20.0, e.ParametricBox.Lower.Y, 1e-9)
		assert.InDelta(t, 21.0, e.ParametricBox.Upper.Y, 1e-9)
		assert.NotEqual(t, e.PhysicalBox.Lower.X, e.ParametricBox.Lower.X)
		seen++
		return true
	})
	assert.Equal(t, 2, seen)
}
