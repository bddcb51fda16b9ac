// Package aabbtree implements a bounding-volume hierarchy over a
// trianglemesh.TriangleMesh, and the robust ray-casting inside/outside
// oracle built on top of it.
package aabbtree

import (
	"fmt"
	"sort"

	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

// Tolerances gathers the compile-time numeric constants used by the
// oracle, grouped in one place per spec.md §9 ("global state: none
// required; numeric tolerances...are compile-time constants grouped in
// one place"). ParallelEps is the parallel-ray threshold, BaryEps is
// spec.md's ε_bary, and OriginEps is ε_origin.
type Tolerances struct {
	ParallelEps float64
	BaryEps     float64
	OriginEps   float64
}

// DefaultTolerances matches spec.md §4.1's suggested defaults.
var DefaultTolerances = Tolerances{
	ParallelEps: 1e-10,
	BaryEps:     1e-10,
	OriginEps:   1e-10,
}

// node is either an internal split (Left/Right indices into nodes) or a
// leaf holding one triangle id.
type node struct {
	box         geometry3d.BoundingBox
	left, right int // -1 if this is a leaf
	triangle    int // valid only when left == -1
}

func (n *node) isLeaf() bool { return n.left < 0 }

// Tree is an immutable, once-built median-split BVH over a mesh's
// triangles.
type Tree struct {
	mesh  *trianglemesh.TriangleMesh
	nodes []node
	root  int
	tol   Tolerances
}

// Build constructs a Tree over mesh using the default tolerances.
func Build(mesh *trianglemesh.TriangleMesh) *Tree {
	return BuildWithTolerances(mesh, DefaultTolerances)
}

// BuildWithTolerances constructs a Tree with explicit numeric tolerances.
func BuildWithTolerances(mesh *trianglemesh.TriangleMesh, tol Tolerances) *Tree {
	t := &Tree{mesh: mesh, tol: tol}
	n := mesh.NumTriangles()
	if n == 0 {
		t.root = -1
		return t
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	t.nodes = make([]node, 0, 2*n)
	t.root = t.build(ids)
	return t
}

// build recursively partitions triangle ids by sorting centroids along the
// parent box's longest axis and splitting at the median, per spec.md
// §4.1. Returns the index of the newly-created node in t.nodes.
func (t *Tree) build(ids []int) int {
	box := geometry3d.EmptyBoundingBox()
	for _, id := range ids {
		box = box.Union(t.mesh.TriangleBoundingBox(id))
	}
	if len(ids) == 1 {
		idx := len(t.nodes)
		t.nodes = append(t.nodes, node{box: box, left: -1, triangle: ids[0]})
		return idx
	}

	axis := box.LongestAxis()
	sort.Slice(ids, func(i, j int) bool {
		ci := t.mesh.Center(ids[i]).Component(axis)
		cj := t.mesh.Center(ids[j]).Component(axis)
		return ci < cj
	})
	mid := len(ids) / 2
	leftIds := append([]int(nil), ids[:mid]...)
	rightIds := append([]int(nil), ids[mid:]...)

	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{box: box})
	left := t.build(leftIds)
	right := t.build(rightIds)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	if t.nodes[idx].isLeaf() {
		panic("aabbtree: internal node build produced a leaf marker for a multi-triangle split")
	}
	return idx
}

// Mesh returns the tree's underlying mesh.
func (t *Tree) Mesh() *trianglemesh.TriangleMesh { return t.mesh }

// Empty reports whether the tree has no triangles.
func (t *Tree) Empty() bool { return t.root < 0 }

// IntersectBox returns the ids of triangles whose bounding box overlaps
// box.
func (t *Tree) IntersectBox(box geometry3d.BoundingBox) []int {
	if t.Empty() {
		return nil
	}
	var out []int
	t.walkBox(t.root, box, &out)
	return out
}

func (t *Tree) walkBox(idx int, box geometry3d.BoundingBox, out *[]int) {
	n := &t.nodes[idx]
	if !n.box.Overlaps(box) {
		return
	}
	if n.isLeaf() {
		*out = append(*out, n.triangle)
		return
	}
	if n.left < 0 || n.right < 0 {
		panic("aabbtree: invariant violation: internal node missing a child")
	}
	t.walkBox(n.left, box, out)
	t.walkBox(n.right, box, out)
}

// Intersect returns the unordered set of triangle ids whose boxes the ray
// enters, per spec.md §4.1's Intersect(ray).
func (t *Tree) Intersect(r geometry3d.Ray) []int {
	if t.Empty() {
		return nil
	}
	var out []int
	t.walkRay(t.root, r, &out)
	return out
}

func (t *Tree) walkRay(idx int, r geometry3d.Ray, out *[]int) {
	n := &t.nodes[idx]
	if !r.IntersectsBox(n.box) {
		return
	}
	if n.isLeaf() {
		*out = append(*out, n.triangle)
		return
	}
	if n.left < 0 || n.right < 0 {
		panic("aabbtree: invariant violation: internal node missing a child")
	}
	t.walkRay(n.left, r, out)
	t.walkRay(n.right, r, out)
}

// PointInside implements spec.md §4.1's robust ray-casting oracle: casts a
// ray from p towards the centroid of a candidate triangle, retrying with
// the next candidate's centroid on every degenerate outcome (parallel,
// boundary-grazing intersection, or an empty candidate list from the tree)
// until every triangle has been tried. Per spec.md §9(a), an empty
// candidate list is treated as a ray-cast degeneracy to retry, not a fatal
// invariant violation. If the ray origin itself lies on a triangle within
// OriginEps, the point is reported as not strictly inside.
func (t *Tree) PointInside(p geometry3d.Point) bool {
	if t.Empty() {
		return false
	}
	n := t.mesh.NumTriangles()
	for candidate := 0; candidate < n; candidate++ {
		center := t.mesh.Center(candidate)
		direction := center.Sub(p)
		if direction.Norm() < t.tol.OriginEps {
			// p coincides with this triangle's centroid; try another
			// direction rather than dividing by a near-zero length.
			continue
		}
		ray := geometry3d.NewRay(p, direction)

		hit := geometry3d.IntersectTriangle(ray, t.mesh.P0(candidate), t.mesh.P1(candidate), t.mesh.P2(candidate), t.tol.ParallelEps)
		if hit.Parallel {
			continue
		}

		result, ok := t.classifyAlongRay(ray, candidate)
		if !ok {
			continue // degenerate: retry with the next candidate direction
		}
		return result
	}
	// All triangles tried and all casts were degenerate.
	return false
}

// classifyAlongRay finds the closest genuine (non-parallel, strictly
// interior to its triangle) intersection along ray among the tree's
// candidate triangles and reports whether p is inside via the mesh's
// stored outward normal at that intersection, not the winding-derived
// normal IntersectTriangle computes internally: a solid triangle's
// winding always agrees with its stored normal, but a cap triangle's
// winding is whatever its loop triangulator produced and must not be
// trusted for this sign. A candidate whose barycentric
// coordinates land outside [0,1] (or sum past 1) by more than BaryEps is
// a plain miss and is skipped, not treated as a degeneracy: a ray can
// legally pass through a candidate's box while landing on a coplanar
// sibling triangle instead, e.g. the two triangles tiling a cube face.
// Only a hit within BaryEps of an edge or vertex is an actual grazing
// ambiguity, and only then does classifyAlongRay signal a retry. A miss
// is filtered before the OriginEps "ray origin lies on this triangle"
// check, so a triangle the ray's plane crosses without actually landing
// on can never trigger that early return. ok is false (retry with a
// different ray) when a boundary graze is found, or when every candidate
// was a miss or lay behind the origin so the ray produced no genuine hit
// at all; ok is true with inside=false when the ray origin lies on a
// triangle, since such a point is not strictly inside.
func (t *Tree) classifyAlongRay(ray geometry3d.Ray, targetTriangle int) (inside bool, ok bool) {
	candidates := t.Intersect(ray)
	if len(candidates) == 0 {
		// Guard per spec.md §9(a): even though the ray was constructed to
		// pass through targetTriangle's centroid, the tree may report no
		// candidates for numerically marginal directions. Treat this as
		// a retry signal rather than raising a fatal condition.
		return false, false
	}

	minT := -1.0
	found := false
	isBackFacing := false
	for _, id := range candidates {
		hit := geometry3d.IntersectTriangle(ray, t.mesh.P0(id), t.mesh.P1(id), t.mesh.P2(id), t.tol.ParallelEps)
		if !hit.Hit || hit.Parallel {
			continue
		}
		sumUV := hit.U + hit.V
		if hit.U < -t.tol.BaryEps || hit.V < -t.tol.BaryEps || sumUV > 1+t.tol.BaryEps {
			continue // clean miss: the ray's plane intersection lies outside this triangle's edges
		}
		if hit.T < t.tol.OriginEps && hit.T > -t.tol.OriginEps {
			// Ray origin lies (numerically) on this triangle.
			return false, true
		}
		if hit.T < 0 {
			continue
		}
		if hit.U < t.tol.BaryEps || hit.V < t.tol.BaryEps || sumUV > 1-t.tol.BaryEps {
			return false, false // grazes an edge or vertex: ambiguous, retry with a new direction
		}
		if !found || hit.T < minT {
			minT = hit.T
			found = true
			// The stored per-triangle normal, not IntersectTriangle's
			// winding-derived one, decides the back-facing sign: cap
			// triangles are appended with a correct outward normal but
			// their winding is whatever the loop triangulator produced,
			// so a winding-derived sign would depend on that accident.
			isBackFacing = ray.Direction.Dot(t.mesh.Normal(id)) > 0
		}
	}
	if !found {
		return false, false
	}
	return isBackFacing, true
}

// String implements fmt.Stringer for debug printing of tree statistics.
func (t *Tree) String() string {
	return fmt.Sprintf("aabbtree.Tree{triangles=%d, nodes=%d}", t.mesh.NumTriangles(), len(t.nodes))
}
