package ggq

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/momentfitting"
	"github.com/embedquad/quadgen/trianglemesh"
	"github.com/embedquad/quadgen/trimmeddomain"
	"github.com/james-bowman/sparse"
)

// Result is a single reduced cubature rule shared across every element
// of a strip, together with the incidence structure needed to attribute
// each shared point back to the one cell it physically falls in.
type Result struct {
	Points    []element.IntegrationPoint
	Incidence *sparse.CSR // rows: points, columns: s.Elements
}

// boxMesh builds a closed, outward-facing triangulated box, the same
// eight-vertex/twelve-triangle construction the trimmed-domain tests use
// for a plain cube, generalized to an arbitrary axis-aligned box.
func boxMesh(box geometry3d.BoundingBox) *trianglemesh.TriangleMesh {
	l, u := box.Lower, box.Upper
	v := []geometry3d.Point{
		{X: l.X, Y: l.Y, Z: l.Z}, {X: u.X, Y: l.Y, Z: l.Z},
		{X: u.X, Y: u.Y, Z: l.Z}, {X: l.X, Y: u.Y, Z: l.Z},
		{X: l.X, Y: l.Y, Z: u.Z}, {X: u.X, Y: l.Y, Z: u.Z},
		{X: u.X, Y: u.Y, Z: u.Z}, {X: l.X, Y: u.Y, Z: u.Z},
	}
	quad := func(a, b, c, d int) []trianglemesh.Triangle {
		return []trianglemesh.Triangle{{a, b, c}, {a, c, d}}
	}
	var tris []trianglemesh.Triangle
	tris = append(tris, quad(0, 3, 2, 1)...) // z = lower
	tris = append(tris, quad(4, 5, 6, 7)...) // z = upper
	tris = append(tris, quad(0, 1, 5, 4)...) // y = lower
	tris = append(tris, quad(2, 3, 7, 6)...) // y = upper
	tris = append(tris, quad(0, 4, 7, 3)...) // x = lower
	tris = append(tris, quad(1, 2, 6, 5)...) // x = upper
	return trianglemesh.New(v, tris, nil)
}

// Assemble moment-fits one shared cubature rule across a strip's combined
// bounding box in place of each member cell's own per-cell tensor Gauss
// rule, reusing the exact machinery trimmeddomain.CreateIntegrationPoints
// applies to a single trimmed cell: the strip's union box, closed into a
// plain triangulated cube, stands in for a trimmed cell's clipped local
// mesh, so the same divergence-theorem constant terms, octree seeding,
// and NNLS elimination fit one rule across the whole run. Since the box
// has no true trimming, this always converges to a residual far below
// any target after the first elimination round; the value of the rule is
// the point count it converges to, which is materially smaller than
// len(s.Elements)*orders.NumFunctions() for anything but a single-cell
// strip.
func Assemble(s Strip, orders momentfitting.Orders, boundaryOrder int, distributionBase int, residualTarget float64) Result {
	box := s.CombinedPhysicalBox()
	mesh := boxMesh(box)
	domain := trimmeddomain.New(box, mesh)

	mfBox := momentfitting.Box{
		PhysicalLower: box.Lower, PhysicalUpper: box.Upper,
		ParametricLower: box.Lower, ParametricUpper: box.Upper,
	}
	req := trimmeddomain.CubatureRequest{
		Box:              mfBox,
		Orders:           orders,
		BoundaryOrder:    boundaryOrder,
		ResidualTarget:   residualTarget,
		DistributionBase: distributionBase,
	}
	points := trimmeddomain.CreateIntegrationPoints(domain, req)

	return Result{Points: points, Incidence: buildIncidence(points, s.Elements)}
}

// buildIncidence marks which strip element each shared point physically
// falls within. The strip's own fitting problem is solved densely (a
// strip spans at most a few dozen cells); this sparse matrix isn't part
// of that solve, it's the block structure across cell boundaries that a
// caller needs to attribute a shared point back to a single owning cell
// for per-cell weight bookkeeping and VTK export.
func buildIncidence(points []element.IntegrationPoint, elements []*element.Element) *sparse.CSR {
	dok := sparse.NewDOK(len(points), len(elements))
	for pi, p := range points {
		for ei, e := range elements {
			if e.PhysicalBox.Contains(p.Position) {
				dok.Set(pi, ei, 1)
			}
		}
	}
	return dok.ToCSR()
}
