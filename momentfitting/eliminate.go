package momentfitting

import (
	"math"
	"sort"

	"github.com/embedquad/quadgen/element"
)

// EpsRel is the relative-to-max-weight threshold below which a point is a
// candidate for removal each elimination round.
const EpsRel = 1e-4

// EpsAbs is the absolute weight floor a surviving point must clear once
// elimination has converged.
const EpsAbs = 1e-14

// MaxIterations caps the elimination outer loop.
const MaxIterations = 1000

// MinSupportSize is the smallest candidate set elimination will reduce
// down to before it stops trying to remove more points.
const MinSupportSize = 4

// HardCutoffResidual is the final acceptance threshold: a cell whose best
// achieved residual exceeds this after elimination is emptied entirely,
// per spec.md §4.5.
const HardCutoffResidual = 1e-2

// Eliminate runs the iterative point-elimination algorithm of spec.md
// §4.5 against candidatePoints, returning the surviving points (with
// their final fitted, Jacobian-corrected weights) and the achieved
// residual. It does not itself retry with a larger candidate set or apply
// the hard cutoff across resizing rounds; that outer retry belongs to the
// caller (the trimmed-domain point-seeding driver), which doubles the
// distribution factor and reseeds when this call's residual still exceeds
// residualTarget.
func Eliminate(constantTerms []float64, candidatePoints []element.IntegrationPoint, box Box, orders Orders, residualTarget float64) (points []element.IntegrationPoint, residual float64) {
	n := orders.NumFunctions()
	points = append([]element.IntegrationPoint(nil), candidatePoints...)

	var lastGood []element.IntegrationPoint
	lastGoodResidual := 0.0
	haveLastGood := false

	globalResidual := math.Inf(-1)
	pointRemoved := false
	iteration := 0

	for pointRemoved || (globalResidual < residualTarget && iteration < MaxIterations) {
		pointRemoved = false

		weights, r := solveWeights(constantTerms, points, box, orders)
		globalResidual = r
		for i := range points {
			points[i].Weight = weights[i]
		}

		switch {
		case iteration == 0:
			sort.Slice(points, func(i, j int) bool { return points[i].Weight > points[j].Weight })
			if len(points) > n {
				points = points[:n]
			}
			pointRemoved = true

		case globalResidual <= residualTarget:
			lastGood = append([]element.IntegrationPoint(nil), points...)
			lastGoodResidual = globalResidual
			haveLastGood = true

			maxW, minIdx, minW := -math.MaxFloat64, 0, math.MaxFloat64
			for i, p := range points {
				if p.Weight > maxW {
					maxW = p.Weight
				}
				if p.Weight < minW {
					minW, minIdx = p.Weight, i
				}
			}

			var kept []element.IntegrationPoint
			for _, p := range points {
				if p.Weight < EpsRel*maxW && len(points) > MinSupportSize {
					pointRemoved = true
					continue
				}
				kept = append(kept, p)
			}
			if !pointRemoved && len(points) > MinSupportSize {
				kept = append([]element.IntegrationPoint(nil), points[:minIdx]...)
				kept = append(kept, points[minIdx+1:]...)
				pointRemoved = true
			}
			points = kept
			if len(points) <= MinSupportSize && !pointRemoved {
				iteration = MaxIterations
			}
		}
		iteration++
	}

	if globalResidual >= residualTarget && haveLastGood && iteration < MaxIterations {
		return pruneBelowAbs(lastGood), lastGoodResidual
	}
	return pruneBelowAbs(points), globalResidual
}

func pruneBelowAbs(points []element.IntegrationPoint) []element.IntegrationPoint {
	kept := make([]element.IntegrationPoint, 0, len(points))
	for _, p := range points {
		if p.Weight >= EpsAbs {
			kept = append(kept, p)
		}
	}
	return kept
}
