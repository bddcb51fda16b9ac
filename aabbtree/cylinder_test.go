package aabbtree

import (
	"math"

	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

// cylinderMesh builds a closed, outward-facing triangulated cylinder of
// given radius and height, axis along +z starting at z=0, with n segments
// around the circumference and fan-triangulated caps. Shared test fixture
// for the cylinder scenario in spec.md §8.
func cylinderMesh(radius, height float64, n int) *trianglemesh.TriangleMesh {
	b := trianglemesh.NewBuilder()
	bottomCenter := geometry3d.Point{X: 0, Y: 0, Z: 0}
	topCenter := geometry3d.Point{X: 0, Y: 0, Z: height}

	ring := func(z float64) []geometry3d.Point {
		pts := make([]geometry3d.Point, n)
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = geometry3d.Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: z}
		}
		return pts
	}
	bottomRing := ring(0)
	topRing := ring(height)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		// Side wall, two triangles per quad, outward normal.
		b.AddTriangle(bottomRing[i], bottomRing[j], topRing[j], outwardNormal(bottomRing[i]))
		b.AddTriangle(bottomRing[i], topRing[j], topRing[i], outwardNormal(bottomRing[i]))
		// Bottom cap fan, outward normal -z.
		b.AddTriangle(bottomCenter, bottomRing[j], bottomRing[i], geometry3d.Point{Z: -1})
		// Top cap fan, outward normal +z.
		b.AddTriangle(topCenter, topRing[i], topRing[j], geometry3d.Point{Z: 1})
	}
	return b.Build()
}

func outwardNormal(p geometry3d.Point) geometry3d.Point {
	return geometry3d.Point{X: p.X, Y: p.Y, Z: 0}.Normalized()
}
