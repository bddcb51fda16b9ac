// Package trimmeddomain owns the watertight local mesh of a trimmed
// background-grid cell, its own inside/outside oracle, the octree that
// seeds candidate interior points, and the driver that turns those
// candidates into a moment-fitted cubature rule.
package trimmeddomain

import (
	"github.com/embedquad/quadgen/aabbtree"
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/gaussrule"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

// TrimmedDomain owns the clipped-and-capped local mesh of solid ∩ cell
// and the AABB tree built over it, giving the domain its own inside/
// outside oracle independent of the full surface mesh's tree.
type TrimmedDomain struct {
	cellBox geometry3d.BoundingBox
	mesh    *trianglemesh.TriangleMesh
	tree    *aabbtree.Tree
}

// New wraps a clipped, capped local mesh (as produced by
// brep.Operator.ClipCellMesh) together with the owning cell's box.
func New(cellBox geometry3d.BoundingBox, localMesh *trianglemesh.TriangleMesh) *TrimmedDomain {
	return &TrimmedDomain{
		cellBox: cellBox,
		mesh:    localMesh,
		tree:    aabbtree.Build(localMesh),
	}
}

// Mesh returns the domain's local watertight mesh.
func (d *TrimmedDomain) Mesh() *trianglemesh.TriangleMesh { return d.mesh }

// CellBox returns the owning cell's box B.
func (d *TrimmedDomain) CellBox() geometry3d.BoundingBox { return d.cellBox }

// IsInside reports whether p, assumed to lie within the owning cell's
// box, is inside the trimmed solid. Per spec.md §4.3 the caller must
// ensure p ∈ B.
func (d *TrimmedDomain) IsInside(p geometry3d.Point) bool {
	return d.tree.PointInside(p)
}

// BoundingBox returns the vertex-wise bounding box of the local mesh,
// which can be strictly smaller than the owning cell's box.
func (d *TrimmedDomain) BoundingBox() geometry3d.BoundingBox {
	return d.mesh.BoundingBox()
}

// BoundaryIntegrationPoints samples every triangle of the local mesh with
// the fixed symmetric Gauss rule of the given order (1-4, see
// gaussrule.TriangleRule), producing the boundary integration points the
// moment-fitting constant-term assembly integrates over.
func (d *TrimmedDomain) BoundaryIntegrationPoints(order int) []element.BoundaryIntegrationPoint {
	rule := gaussrule.TriangleRule(order)
	out := make([]element.BoundaryIntegrationPoint, 0, d.mesh.NumTriangles()*len(rule))
	for i := 0; i < d.mesh.NumTriangles(); i++ {
		p0, p1, p2 := d.mesh.P0(i), d.mesh.P1(i), d.mesh.P2(i)
		normal := d.mesh.Normal(i)
		area := d.mesh.Area(i)
		for _, bp := range rule {
			pos := geometry3d.Point{
				X: bp.L1*p0.X + bp.L2*p1.X + bp.L3*p2.X,
				Y: bp.L1*p0.Y + bp.L2*p1.Y + bp.L3*p2.Y,
				Z: bp.L1*p0.Z + bp.L2*p1.Z + bp.L3*p2.Z,
			}
			out = append(out, element.BoundaryIntegrationPoint{
				Position: pos,
				Normal:   normal,
				Weight:   bp.W * area,
			})
		}
	}
	return out
}
