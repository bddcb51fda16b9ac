package trimmeddomain

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/gaussrule"
	"github.com/embedquad/quadgen/geometry3d"
)

// MaxOctreeDepth bounds the refinement growth in DistributeIntegrationPoints,
// a defensive ceiling not named explicitly in spec.md's seeder description.
const MaxOctreeDepth = 8

// SeedIntegrationPoints places a tensor-product Gauss-Legendre rule of
// order orderPlus1 on every kept leaf of tree, transformed to that leaf's
// box, keeping only the points that pass domain's own IsInside test.
func SeedIntegrationPoints(domain *TrimmedDomain, tree *Octree, orderPlus1 [3]int) []element.IntegrationPoint {
	var out []element.IntegrationPoint
	for _, leaf := range tree.Leaves() {
		rule := gaussrule.TensorProduct3D(
			orderPlus1[0], orderPlus1[1], orderPlus1[2],
			leaf.Lower.X, leaf.Upper.X,
			leaf.Lower.Y, leaf.Upper.Y,
			leaf.Lower.Z, leaf.Upper.Z,
		)
		for _, p := range rule {
			pos := geometry3d.Point{X: p.X, Y: p.Y, Z: p.Z}
			if domain.IsInside(pos) {
				out = append(out, element.IntegrationPoint{Position: pos})
			}
		}
	}
	return out
}

// DistributeIntegrationPoints grows tree's refinement level one step at a
// time and reseeds until at least minPoints candidates are produced or
// MaxOctreeDepth is reached, per spec.md §4.4's seeding target
// min_points = (p_u+1)(p_v+1)(p_w+1)*distribution_factor.
func DistributeIntegrationPoints(domain *TrimmedDomain, tree *Octree, minPoints int, orderPlus1 [3]int) []element.IntegrationPoint {
	level := tree.MaxRefinementLevel()
	if level < 1 {
		level = 1
	}
	var points []element.IntegrationPoint
	for len(points) < minPoints && level <= MaxOctreeDepth {
		tree.Refine(level, MaxOctreeDepth)
		points = SeedIntegrationPoints(domain, tree, orderPlus1)
		level++
	}
	return points
}
