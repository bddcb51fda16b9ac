package brep

import "github.com/embedquad/quadgen/geometry3d"

// clipTriangleToBox clips a single triangle against the box's six
// half-spaces in sequence (Sutherland-Hodgman, generalized to 3D). Because
// each half-space is convex and the triangle is convex, every intermediate
// and final result is a convex polygon, so the caller may always
// fan-triangulate the result without falling back to a constrained
// triangulation.
func clipTriangleToBox(p0, p1, p2 geometry3d.Point, box geometry3d.BoundingBox) []geometry3d.Point {
	poly := []geometry3d.Point{p0, p1, p2}
	for _, f := range allFaces {
		poly = clipPolygonAgainstFace(poly, f, box)
		if len(poly) == 0 {
			return nil
		}
	}
	return poly
}

// clipPolygonAgainstFace clips poly (a closed loop, vertices in order)
// against Face's inward half-space.
func clipPolygonAgainstFace(poly []geometry3d.Point, face Face, box geometry3d.BoundingBox) []geometry3d.Point {
	n := len(poly)
	if n == 0 {
		return nil
	}
	var out []geometry3d.Point
	for i := 0; i < n; i++ {
		curr := poly[i]
		prev := poly[(i-1+n)%n]
		currIn := face.signedDistance(curr, box) >= 0
		prevIn := face.signedDistance(prev, box) >= 0
		switch {
		case currIn && prevIn:
			out = append(out, curr)
		case currIn && !prevIn:
			out = append(out, edgeFaceIntersection(prev, curr, face, box), curr)
		case !currIn && prevIn:
			out = append(out, edgeFaceIntersection(prev, curr, face, box))
		}
	}
	return out
}

// edgeFaceIntersection returns the point where segment a-b crosses Face's
// plane, by linear interpolation of the two endpoints' signed distances.
func edgeFaceIntersection(a, b geometry3d.Point, face Face, box geometry3d.BoundingBox) geometry3d.Point {
	da := face.signedDistance(a, box)
	db := face.signedDistance(b, box)
	denom := da - db
	if denom == 0 {
		return a
	}
	t := da / denom
	return geometry3d.Point{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}

// fanTriangulateConvex fans a convex, coplanar-or-not point loop from its
// first vertex. Valid for any output of clipTriangleToBox, which is always
// convex, but not for arbitrary cap loops.
func fanTriangulateConvex(loop []geometry3d.Point) [][3]geometry3d.Point {
	if len(loop) < 3 {
		return nil
	}
	tris := make([][3]geometry3d.Point, 0, len(loop)-2)
	for i := 1; i < len(loop)-1; i++ {
		tris = append(tris, [3]geometry3d.Point{loop[0], loop[i], loop[i+1]})
	}
	return tris
}
