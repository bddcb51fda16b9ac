// Package trianglemesh implements the closed triangular surface mesh that
// represents a B-Rep solid: a dense vertex array, triangle index triples,
// and per-triangle unit outward normals.
package trianglemesh

import (
	"fmt"
	"math"

	"github.com/embedquad/quadgen/geometry3d"
)

// SnapTolerance is the distance below which two vertices are treated as the
// same point during construction, grouped here with the module's other
// compile-time numeric constants (spec.md §9's "global state: none
// required" guidance keeps these as named constants, not configuration).
const SnapTolerance = 1e-10

// Triangle is a triple of indices into a TriangleMesh's vertex array.
type Triangle [3]int

// TriangleMesh is a closed (or, for a clipped local mesh, locally closed)
// triangular surface. It is appended to during construction but never
// reindexed in place once built.
type TriangleMesh struct {
	Vertices  []geometry3d.Point
	Triangles []Triangle
	Normals   []geometry3d.Point // one unit normal per triangle
}

// New builds a TriangleMesh from raw vertices, triangle index triples, and
// (optionally) precomputed normals. If normals is nil, normals are derived
// from triangle winding. Vertex indices out of range panic: this is an
// invariant violation, not a recoverable input error, since the caller
// owns index construction.
func New(vertices []geometry3d.Point, triangles []Triangle, normals []geometry3d.Point) *TriangleMesh {
	m := &TriangleMesh{
		Vertices:  vertices,
		Triangles: triangles,
	}
	for _, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				panic(fmt.Sprintf("trianglemesh: triangle vertex index %d out of range [0,%d)", idx, len(vertices)))
			}
		}
	}
	if normals != nil {
		if len(normals) != len(triangles) {
			panic("trianglemesh: normals length must match triangle count")
		}
		m.Normals = normals
	} else {
		m.Normals = make([]geometry3d.Point, len(triangles))
		for i := range triangles {
			m.Normals[i] = m.computeNormal(i)
		}
	}
	return m
}

// computeNormal derives a unit normal from triangle winding, recomputing
// from the longest two edges if the naive cross product degenerates
// (near-zero area), per spec.md §7's geometry-degeneracy recovery.
func (m *TriangleMesh) computeNormal(i int) geometry3d.Point {
	p0, p1, p2 := m.P0(i), m.P1(i), m.P2(i)
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)
	if n.Norm() > SnapTolerance {
		return n.Normalized()
	}
	// Degenerate: pick the two longest edges among the three and cross
	// those instead.
	e3 := p2.Sub(p1)
	edges := [3]geometry3d.Point{e1, e2, e3}
	lengths := [3]float64{e1.Norm(), e2.Norm(), e3.Norm()}
	i0, i1 := 0, 1
	if lengths[1] > lengths[i0] {
		i0 = 1
	}
	for k := 0; k < 3; k++ {
		if k != i0 && lengths[k] > lengths[i1] {
			i1 = k
		}
	}
	if i1 == i0 {
		i1 = (i0 + 1) % 3
	}
	n = edges[i0].Cross(edges[i1])
	if n.Norm() < SnapTolerance {
		// Fully degenerate (a point or a line): return an arbitrary unit
		// vector so downstream code never divides by zero. This triangle
		// contributes no area and only exists as a defensive fallback.
		return geometry3d.Point{X: 1}
	}
	return n.Normalized()
}

// P0, P1, P2 return the three vertex positions of triangle i.
func (m *TriangleMesh) P0(i int) geometry3d.Point { return m.Vertices[m.Triangles[i][0]] }
func (m *TriangleMesh) P1(i int) geometry3d.Point { return m.Vertices[m.Triangles[i][1]] }
func (m *TriangleMesh) P2(i int) geometry3d.Point { return m.Vertices[m.Triangles[i][2]] }

// Normal returns triangle i's unit outward normal.
func (m *TriangleMesh) Normal(i int) geometry3d.Point { return m.Normals[i] }

// NumTriangles returns the number of triangles in the mesh.
func (m *TriangleMesh) NumTriangles() int { return len(m.Triangles) }

// NumVertices returns the number of vertices in the mesh.
func (m *TriangleMesh) NumVertices() int { return len(m.Vertices) }

// Center returns the centroid of triangle i.
func (m *TriangleMesh) Center(i int) geometry3d.Point {
	return m.P0(i).Add(m.P1(i)).Add(m.P2(i)).Scale(1.0 / 3.0)
}

// Area returns the area of triangle i via Heron's formula, matching
// original_source/tibra/containers/triangle_mesh.h's Area().
func (m *TriangleMesh) Area(i int) float64 {
	p0, p1, p2 := m.P0(i), m.P1(i), m.P2(i)
	a := p0.Sub(p1).Norm()
	b := p1.Sub(p2).Norm()
	c := p2.Sub(p0).Norm()
	s := (a + b + c) / 2.0
	radicand := s * (s - a) * (s - b) * (s - c)
	if radicand <= 0 {
		return 0
	}
	return math.Sqrt(radicand)
}

// BoundingBox returns the vertex-wise bounding box of the whole mesh.
func (m *TriangleMesh) BoundingBox() geometry3d.BoundingBox {
	box := geometry3d.EmptyBoundingBox()
	for _, v := range m.Vertices {
		box = box.Extend(v)
	}
	return box
}

// TriangleBoundingBox returns the bounding box of a single triangle.
func (m *TriangleMesh) TriangleBoundingBox(i int) geometry3d.BoundingBox {
	box := geometry3d.NewBoundingBox(m.P0(i), m.P1(i))
	return box.Extend(m.P2(i))
}

// Builder accumulates vertices with snapping-based deduplication, used by
// the clipper (brep package) when assembling a new local mesh from clip
// output where coincident vertices arise naturally at cell-face
// intersections.
type Builder struct {
	Vertices  []geometry3d.Point
	Triangles []Triangle
	Normals   []geometry3d.Point
	index     map[snapKey]int
}

type snapKey [3]int64

func snap(p geometry3d.Point) snapKey {
	const inv = 1.0 / SnapTolerance
	return snapKey{
		int64(math.Round(p.X * inv)),
		int64(math.Round(p.Y * inv)),
		int64(math.Round(p.Z * inv)),
	}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[snapKey]int)}
}

// AddVertex returns the index of p, reusing an existing vertex within
// SnapTolerance if one exists.
func (b *Builder) AddVertex(p geometry3d.Point) int {
	key := snap(p)
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := len(b.Vertices)
	b.Vertices = append(b.Vertices, p)
	b.index[key] = idx
	return idx
}

// AddTriangle appends a triangle given its three vertex positions and an
// outward normal.
func (b *Builder) AddTriangle(p0, p1, p2 geometry3d.Point, normal geometry3d.Point) {
	i0 := b.AddVertex(p0)
	i1 := b.AddVertex(p1)
	i2 := b.AddVertex(p2)
	if i0 == i1 || i1 == i2 || i0 == i2 {
		return // degenerate after snapping; skip
	}
	b.Triangles = append(b.Triangles, Triangle{i0, i1, i2})
	b.Normals = append(b.Normals, normal.Normalized())
}

// Build finalizes the accumulated data into a TriangleMesh.
func (b *Builder) Build() *TriangleMesh {
	return New(b.Vertices, b.Triangles, b.Normals)
}

// Empty reports whether no triangles have been added.
func (b *Builder) Empty() bool { return len(b.Triangles) == 0 }
