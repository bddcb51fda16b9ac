package geometry3d

import "math"

// Ray is a half-line, origin plus a (not necessarily unit) direction. The
// component-wise inverse of the direction is precomputed once so repeated
// slab tests against many boxes avoid redundant divisions; a zero direction
// component maps to +Inf, which the slab test below handles correctly.
type Ray struct {
	Origin    Point
	Direction Point
	invDir    Point
}

// NewRay builds a Ray. Panics if Direction is the zero vector.
func NewRay(origin, direction Point) Ray {
	if direction.X == 0 && direction.Y == 0 && direction.Z == 0 {
		panic("geometry3d: ray direction must be non-zero")
	}
	return Ray{
		Origin:    origin,
		Direction: direction,
		invDir:    Point{safeInv(direction.X), safeInv(direction.Y), safeInv(direction.Z)},
	}
}

func safeInv(x float64) float64 {
	if x == 0 {
		return math.Inf(1)
	}
	return 1 / x
}

// IntersectsBox reports whether the ray enters box within parametric range
// [tMin, tMax], using the slab algorithm.
func (r Ray) IntersectsBox(box BoundingBox) bool {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	lower := [3]float64{box.Lower.X, box.Lower.Y, box.Lower.Z}
	upper := [3]float64{box.Upper.X, box.Upper.Y, box.Upper.Z}
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	invDir := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}

	for axis := 0; axis < 3; axis++ {
		t1 := (lower[axis] - origin[axis]) * invDir[axis]
		t2 := (upper[axis] - origin[axis]) * invDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false
		}
	}
	return tMax >= 0
}

// DefaultParallelTolerance is the default threshold below which
// |dir·n|/|dir| classifies a ray as parallel to a triangle's plane.
const DefaultParallelTolerance = 1e-10

// DefaultBarycentricTolerance is the default tolerance used when comparing
// barycentric coordinates to the triangle boundary.
const DefaultBarycentricTolerance = 1e-10

// TriangleHit is the result of a ray-triangle intersection test.
type TriangleHit struct {
	T, U, V    float64
	BackFacing bool
	Parallel   bool
	Hit        bool
}

// IntersectTriangle implements Möller–Trumbore, returning (t,u,v) plus
// parallel/back-facing flags. epsParallel gates the parallel test; the
// caller is responsible for comparing U, V, 1-U-V against
// DefaultBarycentricTolerance (or its own) to detect boundary grazes,
// since what counts as "on the boundary" is a caller policy (see
// aabbtree.Tree.PointInside).
func IntersectTriangle(r Ray, p0, p1, p2 Point, epsParallel float64) TriangleHit {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	dirNorm := r.Direction.Norm()
	if dirNorm == 0 || math.Abs(det)/dirNorm < epsParallel {
		return TriangleHit{Parallel: true}
	}

	normal := edge1.Cross(edge2)
	backFacing := r.Direction.Dot(normal) > 0

	invDet := 1.0 / det
	tvec := r.Origin.Sub(p0)
	u := tvec.Dot(pvec) * invDet

	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	t := edge2.Dot(qvec) * invDet

	return TriangleHit{
		T: t, U: u, V: v,
		BackFacing: backFacing,
		Hit:        true,
	}
}
