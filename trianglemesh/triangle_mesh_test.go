package trianglemesh

import (
	"testing"

	"github.com/embedquad/quadgen/geometry3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTriangleMesh() *TriangleMesh {
	verts := []geometry3d.Point{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}
	tris := []Triangle{{0, 1, 2}}
	return New(verts, tris, nil)
}

func TestNewDerivesNormal(t *testing.T) {
	m := unitTriangleMesh()
	n := m.Normal(0)
	assert.InDelta(t, 0.0, n.X, 1e-12)
	assert.InDelta(t, 0.0, n.Y, 1e-12)
	assert.InDelta(t, 1.0, n.Z, 1e-12)
}

func TestAreaAndCenter(t *testing.T) {
	m := unitTriangleMesh()
	assert.InDelta(t, 0.5, m.Area(0), 1e-12)
	c := m.Center(0)
	assert.InDelta(t, 1.0/3.0, c.X, 1e-12)
	assert.InDelta(t, 1.0/3.0, c.Y, 1e-12)
}

func TestOutOfRangeIndexPanics(t *testing.T) {
	defer func() {
		require.NotNil(t, recover())
	}()
	New([]geometry3d.Point{{0, 0, 0}}, []Triangle{{0, 1, 2}}, nil)
}

func TestDegenerateNormalRecoversFromLongestEdges(t *testing.T) {
	// Three colinear-ish points on X axis except a tiny Y perturbation:
	// the naive cross product is nearly zero, forcing the fallback path.
	verts := []geometry3d.Point{
		{0, 0, 0}, {1, 0, 0}, {2, 1e-13, 0},
	}
	m := New(verts, []Triangle{{0, 1, 2}}, nil)
	n := m.Normal(0)
	assert.InDelta(t, 1.0, n.Norm(), 1e-9)
}

func TestBuilderSnapsCoincidentVertices(t *testing.T) {
	b := NewBuilder()
	i0 := b.AddVertex(geometry3d.Point{0, 0, 0})
	i1 := b.AddVertex(geometry3d.Point{0, 0, 1e-13})
	assert.Equal(t, i0, i1)
	i2 := b.AddVertex(geometry3d.Point{1, 0, 0})
	assert.NotEqual(t, i0, i2)
}

func TestBuilderSkipsDegenerateTriangle(t *testing.T) {
	b := NewBuilder()
	p := geometry3d.Point{0, 0, 0}
	b.AddTriangle(p, p, geometry3d.Point{1, 0, 0}, geometry3d.Point{0, 0, 1})
	assert.True(t, b.Empty())
}

func TestBoundingBox(t *testing.T) {
	m := unitTriangleMesh()
	box := m.BoundingBox()
	assert.Equal(t, geometry3d.Point{0, 0, 0}, box.Lower)
	assert.Equal(t, geometry3d.Point{1, 1, 0}, box.Upper)
}
