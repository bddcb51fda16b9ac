package trimmeddomain

import (
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/momentfitting"
)

// CubatureRequest bundles the per-run parameters CreateIntegrationPoints
// needs beyond the domain itself.
type CubatureRequest struct {
	Box              momentfitting.Box
	Orders           momentfitting.Orders
	BoundaryOrder    int // 1..4, gaussrule.TriangleRule order for boundary sampling
	ResidualTarget   float64
	DistributionBase int // initial distribution_factor, spec.md default 2
}

// CreateIntegrationPoints runs spec.md §4.5's full trimmed-cell cubature
// synthesis: build the constant-term moment vector once from the domain's
// boundary, then repeatedly seed candidate interior points via the octree
// and hand them to momentfitting.Eliminate, doubling the seeding
// distribution factor up to 4 times if the residual target isn't met. A
// residual above the hard cutoff after elimination empties the cell.
func CreateIntegrationPoints(domain *TrimmedDomain, req CubatureRequest) []element.IntegrationPoint {
	boundaryPoints := domain.BoundaryIntegrationPoints(req.BoundaryOrder)
	constantTerms := momentfitting.ComputeConstantTerms(boundaryPoints, req.Box, req.Orders)

	orderPlus1 := [3]int{req.Orders.U + 1, req.Orders.V + 1, req.Orders.W + 1}
	tree := NewOctree(domain)

	distributionFactor := req.DistributionBase
	if distributionFactor < 1 {
		distributionFactor = 1
	}

	var survivors []element.IntegrationPoint
	residual := 0.0
	for outer := 0; outer < 4; outer++ {
		minPoints := req.Orders.NumFunctions() * distributionFactor
		candidates := DistributeIntegrationPoints(domain, tree, minPoints, orderPlus1)
		candidates = append(candidates, survivors...)

		survivors, residual = momentfitting.Eliminate(constantTerms, candidates, req.Box, req.Orders, req.ResidualTarget)
		if residual > momentfitting.HardCutoffResidual {
			survivors = nil
		}
		if residual <= req.ResidualTarget {
			break
		}
		distributionFactor *= 2
	}
	return survivors
}
