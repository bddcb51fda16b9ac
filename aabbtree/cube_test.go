package aabbtree

import (
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

// unitCubeMesh builds a closed, outward-facing triangulated unit cube
// centered at the origin with half-extent h, shared by this package's
// tests and by trimmeddomain/brep tests that need a simple closed solid.
func unitCubeMesh(h float64) *trianglemesh.TriangleMesh {
	v := []geometry3d.Point{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h}, // bottom 0-3
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}, // top 4-7
	}
	quad := func(a, b, c, d int) []trianglemesh.Triangle {
		return []trianglemesh.Triangle{{a, b, c}, {a, c, d}}
	}
	var tris []trianglemesh.Triangle
	tris = append(tris, quad(0, 3, 2, 1)...) // bottom, normal -z
	tris = append(tris, quad(4, 5, 6, 7)...) // top, normal +z
	tris = append(tris, quad(0, 1, 5, 4)...) // front, normal -y
	tris = append(tris, quad(2, 3, 7, 6)...) // back, normal +y
	tris = append(tris, quad(0, 4, 7, 3)...) // left, normal -x
	tris = append(tris, quad(1, 2, 6, 5)...) // right, normal +x
	return trianglemesh.New(v, tris, nil)
}
