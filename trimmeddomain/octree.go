package trimmeddomain

import "github.com/embedquad/quadgen/geometry3d"

// octreeNode is either a discarded region (nil), an interior split, or a
// kept leaf.
type octreeNode struct {
	box      geometry3d.BoundingBox
	children [8]*octreeNode
	isLeaf   bool
}

// Octree recursively subdivides a trimmed domain's bounding box into 8
// children, per spec.md §4.4: a node is discarded if its center is
// outside the trimmed domain, kept as a leaf at its target depth, or
// split further otherwise.
type Octree struct {
	domain   *TrimmedDomain
	root     *octreeNode
	maxDepth int
}

// NewOctree builds a single-leaf (depth 0) octree over domain's bounding
// box, ready to be grown by Refine.
func NewOctree(domain *TrimmedDomain) *Octree {
	o := &Octree{domain: domain, maxDepth: 0}
	o.root = o.buildNode(domain.BoundingBox(), 0)
	return o
}

// MaxRefinementLevel returns the depth the tree was last built to.
func (o *Octree) MaxRefinementLevel() int { return o.maxDepth }

// Refine rebuilds the tree to targetDepth, capped at hardMax.
func (o *Octree) Refine(targetDepth, hardMax int) {
	if targetDepth > hardMax {
		targetDepth = hardMax
	}
	if targetDepth < 0 {
		targetDepth = 0
	}
	o.maxDepth = targetDepth
	o.root = o.buildNode(o.domain.BoundingBox(), 0)
}

func (o *Octree) buildNode(box geometry3d.BoundingBox, depth int) *octreeNode {
	if !o.domain.IsInside(box.Center()) {
		return nil
	}
	if depth >= o.maxDepth {
		return &octreeNode{box: box, isLeaf: true}
	}
	node := &octreeNode{box: box}
	any := false
	for i := 0; i < 8; i++ {
		child := o.buildNode(box.Octant(i), depth+1)
		node.children[i] = child
		if child != nil {
			any = true
		}
	}
	if !any {
		return nil
	}
	return node
}

// Leaves returns every kept leaf box in the tree.
func (o *Octree) Leaves() []geometry3d.BoundingBox {
	var out []geometry3d.BoundingBox
	collectLeaves(o.root, &out)
	return out
}

func collectLeaves(n *octreeNode, out *[]geometry3d.BoundingBox) {
	if n == nil {
		return
	}
	if n.isLeaf {
		*out = append(*out, n.box)
		return
	}
	for _, c := range n.children {
		collectLeaves(c, out)
	}
}
