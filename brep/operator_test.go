package brep

import (
	"testing"

	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitCubeMesh builds a closed, outward-facing triangulated cube centered
// at the origin with half-extent h.
func unitCubeMesh(h float64) *trianglemesh.TriangleMesh {
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

func TestClassifyCellFullyInside(t *testing.T) {
	op := NewOperator(unitCubeMesh(2.0))
	box := geometry3d.NewBoundingBox(geometry3d.Point{-0.5, -0.5, -0.5}, geometry3d.Point{0.5, 0.5, 0.5})
	assert.Equal(t, CellInside, op.ClassifyCell(box, DefaultCellTolerance))
}

func TestClassifyCellFullyOutside(t *testing.T) {
	op := NewOperator(unitCubeMesh(1.0))
	box := geometry3d.NewBoundingBox(geometry3d.Point{10, 10, 10}, geometry3d.Point{11, 11, 11})
	assert.Equal(t, CellOutside, op.ClassifyCell(box, DefaultCellTolerance))
}

func TestClassifyCellTrimmed(t *testing.T) {
	op := NewOperator(unitCubeMesh(1.0))
	box := geometry3d.NewBoundingBox(geometry3d.Point{0.5, 0.5, 0.5}, geometry3d.Point{1.5, 1.5, 1.5})
	assert.Equal(t, CellTrimmed, op.ClassifyCell(box, DefaultCellTolerance))
}

func TestClassifyCellTouchingFaceIsNotTrimmed(t *testing.T) {
	// A cell whose face sits exactly on the cube's x=1 face touches the
	// surface without being cut by it; with tau>0 shrinking the query box
	// inward, this must classify Outside rather than Trimmed.
	op := NewOperator(unitCubeMesh(1.0))
	box := geometry3d.NewBoundingBox(geometry3d.Point{1.0, -0.5, -0.5}, geometry3d.Point{2.0, 0.5, 0.5})
	assert.Equal(t, CellOutside, op.ClassifyCell(box, DefaultCellTolerance))
}

func TestClipCellMeshCapsAHalfSlice(t *testing.T) {
	op := NewOperator(unitCubeMesh(1.0))
	// Slice the cube in half at z=0, keeping the bottom half; the box
	// extends well past the cube's footprint in x and y.
	box := geometry3d.NewBoundingBox(geometry3d.Point{-2, -2, -1.5}, geometry3d.Point{2, 2, 0})
	mesh, err := op.ClipCellMesh(box)
	require.NoError(t, err)
	require.NotNil(t, mesh)
	assert.Greater(t, mesh.NumTriangles(), 0)

	for i := 0; i < mesh.NumTriangles(); i++ {
		for _, p := range [3]geometry3d.Point{mesh.P0(i), mesh.P1(i), mesh.P2(i)} {
			assert.True(t, box.Expand(1e-6).Contains(p), "vertex %v outside clip box", p)
		}
	}
}

func TestClipCellMeshCapWindingMatchesStoredNormalOnMinFace(t *testing.T) {
	op := NewOperator(unitCubeMesh(1.0))
	// The box's own z=0 plane is its FaceZMin, and it slices through the
	// cube's interior, so the cap closing that cut is built on a min face
	// (outward normal along -z) rather than a max face.
	box := geometry3d.NewBoundingBox(geometry3d.Point{-2, -2, 0}, geometry3d.Point{2, 2, 1.5})
	mesh, err := op.ClipCellMesh(box)
	require.NoError(t, err)
	require.Greater(t, mesh.NumTriangles(), 0)

	for i := 0; i < mesh.NumTriangles(); i++ {
		p0, p1, p2 := mesh.P0(i), mesh.P1(i), mesh.P2(i)
		windingNormal := p1.Sub(p0).Cross(p2.Sub(p0))
		assert.Greaterf(t, windingNormal.Dot(mesh.Normal(i)), 0.0,
			"triangle %d wound opposite its stored normal", i)
	}
}

func TestClipCellMeshOutsideCellErrors(t *testing.T) {
	op := NewOperator(unitCubeMesh(1.0))
	box := geometry3d.NewBoundingBox(geometry3d.Point{10, 10, 10}, geometry3d.Point{11, 11, 11})
	_, err := op.ClipCellMesh(box)
	assert.Error(t, err)
}
