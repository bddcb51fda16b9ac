// Package brep implements the boundary-representation operator: the
// inside/outside oracle, cell classification against the background grid,
// and the Sutherland-Hodgman clip plus cap-polygon closure that produces a
// watertight local mesh for a single trimmed cell.
package brep

import (
	"fmt"

	"github.com/embedquad/quadgen/aabbtree"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

// CellStatus classifies a background-grid cell against the immersed
// surface, mirroring original_source/tibra/embedding/brep_operator.h's
// IntersectionStatus enum.
type CellStatus int

const (
	CellOutside CellStatus = iota
	CellInside
	CellTrimmed
)

// DefaultCellTolerance is spec.md §4.2's τ, the compile-time cell-box
// tolerance grouped here alongside aabbtree.DefaultTolerances per §9's
// "numeric tolerances are compile-time constants grouped in one place":
// ClassifyCell shrinks its query box inward by this amount so a surface
// triangle lying exactly on a cell boundary doesn't mark both neighbors
// Trimmed.
const DefaultCellTolerance = 1e-9

func (s CellStatus) String() string {
	switch s {
	case CellOutside:
		return "outside"
	case CellInside:
		return "inside"
	case CellTrimmed:
		return "trimmed"
	default:
		return fmt.Sprintf("CellStatus(%d)", int(s))
	}
}

// Operator wraps a closed surface mesh and its AABB tree, exposing the
// inside/outside oracle and the per-cell clip/classify operations that the
// pipeline runs against the background grid.
type Operator struct {
	mesh *trianglemesh.TriangleMesh
	tree *aabbtree.Tree
}

// NewOperator builds an Operator over mesh, constructing its AABB tree.
func NewOperator(mesh *trianglemesh.TriangleMesh) *Operator {
	return &Operator{mesh: mesh, tree: aabbtree.Build(mesh)}
}

// Mesh returns the wrapped surface mesh.
func (o *Operator) Mesh() *trianglemesh.TriangleMesh { return o.mesh }

// Tree returns the operator's AABB tree, e.g. for direct reuse by a
// trimmed-domain's own local oracle.
func (o *Operator) Tree() *aabbtree.Tree { return o.tree }

// IsInside reports whether p lies inside the closed surface.
func (o *Operator) IsInside(p geometry3d.Point) bool {
	return o.tree.PointInside(p)
}

// ClassifyCell determines whether box lies entirely inside, entirely
// outside, or is cut by the surface: a tree overlap query first (any
// overlapping triangle makes the cell Trimmed), then an inside/outside
// test of the box center for a cell no triangle touches. tau is spec.md §4.2's cell
// tolerance: the overlap query runs against box shrunk inward by tau, so
// a surface triangle lying exactly on a shared grid plane doesn't mark
// every cell touching that plane Trimmed. Callers with no reason to
// deviate should pass DefaultCellTolerance.
func (o *Operator) ClassifyCell(box geometry3d.BoundingBox, tau float64) CellStatus {
	if len(o.tree.IntersectBox(box.Shrink(tau))) > 0 {
		return CellTrimmed
	}
	center := box.Center()
	if o.IsInside(center) {
		return CellInside
	}
	return CellOutside
}

// ClipCellMesh builds the watertight local mesh of solid ∩ box: the
// portion of the surface mesh clipped to box, closed off with cap
// triangles on whichever box faces the solid crosses, per spec.md's
// trimmed-domain construction. Returns an error if a cap loop could not be
// closed (a degenerate clip configuration).
func (o *Operator) ClipCellMesh(box geometry3d.BoundingBox) (*trianglemesh.TriangleMesh, error) {
	b := trianglemesh.NewBuilder()
	faceEdges := make([][]faceEdge, len(allFaces))

	candidates := o.tree.IntersectBox(box)
	for _, id := range candidates {
		p0, p1, p2 := o.mesh.P0(id), o.mesh.P1(id), o.mesh.P2(id)
		normal := o.mesh.Normal(id)
		clipped := clipTriangleToBox(p0, p1, p2, box)
		if len(clipped) < 3 {
			continue
		}
		for _, tri := range fanTriangulateConvex(clipped) {
			b.AddTriangle(tri[0], tri[1], tri[2], normal)
		}
		recordBoundaryEdges(clipped, box, faceEdges)
	}

	for fi, f := range allFaces {
		loops := assembleLoops(faceEdges[fi])
		for _, loop := range loops {
			if !samePoint(loop[0], loop[len(loop)-1]) || len(loop) < 4 {
				continue // open chain or degenerate loop: nothing to cap
			}
			ring := loop[:len(loop)-1]
			outward := f.OutwardNormal()
			for _, tri := range triangulateLoop(ring, f.Axis()) {
				p0, p1, p2 := orientToNormal(ring[tri[0]], ring[tri[1]], ring[tri[2]], outward)
				b.AddTriangle(p0, p1, p2, outward)
			}
		}
	}

	if b.Empty() {
		return nil, fmt.Errorf("brep: cell box %v produced no clipped or capped geometry", box)
	}
	return b.Build(), nil
}

// recordBoundaryEdges scans a clipped, convex polygon's edges and records
// any edge whose two endpoints both lie on the same box face's plane as a
// candidate cap boundary edge for that face.
func recordBoundaryEdges(poly []geometry3d.Point, box geometry3d.BoundingBox, faceEdges [][]faceEdge) {
	n := len(poly)
	for i := 0; i < n; i++ {
		a, bb := poly[i], poly[(i+1)%n]
		for fi, f := range allFaces {
			if f.onPlane(a, box, LoopSnapTolerance) && f.onPlane(bb, box, LoopSnapTolerance) {
				faceEdges[fi] = append(faceEdges[fi], faceEdge{a: a, b: bb})
			}
		}
	}
}
