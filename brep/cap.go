package brep

import (
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
	"github.com/pradeep-pyro/triangle"
)

// orientToNormal returns p0,p1,p2 in the order whose winding agrees with
// outward, swapping p1 and p2 when it doesn't. triangulateLoop's fan and
// the Triangle library's Delaunay output are both wound CCW in the 2D
// (axis+1,axis+2) projection, which is the correct outward winding for
// the max faces but backwards for the min faces (outward normal along
// -axis), so a cap triangle's winding can't be trusted without this
// check.
func orientToNormal(p0, p1, p2, outward geometry3d.Point) (geometry3d.Point, geometry3d.Point, geometry3d.Point) {
	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	if normal.Dot(outward) < 0 {
		return p0, p2, p1
	}
	return p0, p1, p2
}

// planarCoords projects a coplanar point loop lying on the box face whose
// normal is fixedAxis into 2D, using the other two coordinate axes.
func planarCoords(loop []geometry3d.Point, fixedAxis int) [][2]float64 {
	u, v := (fixedAxis+1)%3, (fixedAxis+2)%3
	out := make([][2]float64, len(loop))
	for i, p := range loop {
		out[i] = [2]float64{p.Component(u), p.Component(v)}
	}
	return out
}

// isConvex reports whether the ordered 2D polygon turns consistently in
// one direction at every vertex.
func isConvex(pts [][2]float64) bool {
	n := len(pts)
	if n < 4 {
		return true
	}
	sign := 0.0
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := (b[0]-a[0])*(c[1]-b[1]) - (b[1]-a[1])*(c[0]-b[0])
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// triangulateLoop triangulates a coplanar, simple polygon loop lying on
// the box face normal to fixedAxis, returning triangles that index into
// loop. Convex loops (the common case for a single cap on a lightly
// trimmed cell face) are fan-triangulated from vertex 0. Non-convex loops
// fall back to a constrained Delaunay triangulation, since fanning a
// non-convex polygon from an arbitrary vertex can produce triangles that
// leave the polygon and double-cover or miss part of its interior.
func triangulateLoop(loop []geometry3d.Point, fixedAxis int) []trianglemesh.Triangle {
	n := len(loop)
	if n < 3 {
		return nil
	}
	coords2D := planarCoords(loop, fixedAxis)
	if isConvex(coords2D) {
		tris := make([]trianglemesh.Triangle, 0, n-2)
		for i := 1; i < n-1; i++ {
			tris = append(tris, trianglemesh.Triangle{0, i, i + 1})
		}
		return tris
	}
	return triangulateNonConvex(coords2D)
}

// triangulateNonConvex hands a non-convex simple polygon (vertices in
// order, closing edge implied between the last and first point) to the
// Triangle library for a constrained Delaunay triangulation over the
// polygon boundary, with no interior Steiner points ("p" constrained,
// "z" zero-indexed output, "Q" quiet).
func triangulateNonConvex(coords2D [][2]float64) []trianglemesh.Triangle {
	n := len(coords2D)
	points := make([]float64, 0, 2*n)
	segments := make([]int32, 0, 2*n)
	for i, p := range coords2D {
		points = append(points, p[0], p[1])
		segments = append(segments, int32(i), int32((i+1)%n))
	}
	in := &triangle.Triangleio{
		Pointlist:   points,
		Segmentlist: segments,
	}
	out := &triangle.Triangleio{}
	if err := triangle.Triangulate("pzQ", in, out, nil); err != nil {
		// The polygon is degenerate (collinear or self-intersecting after
		// clipping round-off); leave the cap untriangulated rather than
		// propagate a hard failure into the caller's cell classification.
		return nil
	}
	tris := make([]trianglemesh.Triangle, 0, len(out.Trianglelist)/3)
	for i := 0; i+2 < len(out.Trianglelist); i += 3 {
		tris = append(tris, trianglemesh.Triangle{
			int(out.Trianglelist[i]),
			int(out.Trianglelist[i+1]),
			int(out.Trianglelist[i+2]),
		})
	}
	return tris
}
