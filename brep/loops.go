package brep

import (
	"math"

	"github.com/embedquad/quadgen/geometry3d"
)

// LoopSnapTolerance is the vertex-coincidence tolerance used when chaining
// clip-generated edges into closed cap loops.
const LoopSnapTolerance = 1e-9

// faceEdge is one undirected boundary edge of a clipped triangle that was
// found to lie on a box face's plane.
type faceEdge struct {
	a, b geometry3d.Point
}

func snapKeyPoint(p geometry3d.Point) [3]int64 {
	const scale = 1.0 / LoopSnapTolerance
	return [3]int64{
		int64(math.Round(p.X * scale)),
		int64(math.Round(p.Y * scale)),
		int64(math.Round(p.Z * scale)),
	}
}

func samePoint(a, b geometry3d.Point) bool {
	return snapKeyPoint(a) == snapKeyPoint(b)
}

// assembleLoops chains a set of undirected boundary edges lying on one box
// face into closed point loops. Edges arrive from independently-clipped
// triangles, so adjacency is discovered by snapped vertex coincidence
// rather than shared indices, in the spirit of how a half-edge map keys on
// an endpoint pair; here it keys on one endpoint at a time so that edges
// contributed by unrelated triangles still chain when their clipped
// vertices coincide.
func assembleLoops(edges []faceEdge) [][]geometry3d.Point {
	adjacency := make(map[[3]int64][]int)
	for i, e := range edges {
		ka, kb := snapKeyPoint(e.a), snapKeyPoint(e.b)
		adjacency[ka] = append(adjacency[ka], i)
		adjacency[kb] = append(adjacency[kb], i)
	}

	used := make([]bool, len(edges))
	var loops [][]geometry3d.Point
	for start := range edges {
		if used[start] {
			continue
		}
		used[start] = true
		loop := []geometry3d.Point{edges[start].a}
		current := edges[start].b
		for {
			loop = append(loop, current)
			if samePoint(current, loop[0]) {
				break // closed
			}
			key := snapKeyPoint(current)
			next := -1
			for _, idx := range adjacency[key] {
				if !used[idx] {
					next = idx
					break
				}
			}
			if next < 0 {
				break // open chain, left as a non-closed polyline
			}
			used[next] = true
			e := edges[next]
			if samePoint(e.a, current) {
				current = e.b
			} else {
				current = e.a
			}
		}
		loops = append(loops, loop)
	}
	return loops
}
