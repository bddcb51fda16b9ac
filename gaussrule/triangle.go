package gaussrule

import "fmt"

// BarycentricPoint is one node of a fixed-order symmetric triangle
// quadrature rule, in barycentric coordinates (L1,L2,L3 summing to 1),
// with a weight normalized so that all of a rule's weights sum to 1 (i.e.
// W approximates the point's share of the triangle's area fraction).
type BarycentricPoint struct {
	L1, L2, L3, W float64
}

// TriangleRule returns the fixed symmetric quadrature rule of the given
// order (1 through 4), matching the four boundary-triangle rules
// (TriangleGaussLegendrePoints1..4) a moment-fitting boundary integral is
// built from: order 1 is the 1-point centroid rule (exact for linear
// integrands), order 2 the 3-point rule (exact to degree 2), order 3 the
// classical 4-point rule (exact to degree 3, includes a negative
// centroid weight), and order 4 the 6-point rule (exact to degree 4, all
// weights positive).
func TriangleRule(order int) []BarycentricPoint {
	switch order {
	case 1:
		return []BarycentricPoint{
			{L1: 1.0 / 3, L2: 1.0 / 3, L3: 1.0 / 3, W: 1.0},
		}
	case 2:
		const a, b = 2.0 / 3, 1.0 / 6
		return []BarycentricPoint{
			{L1: a, L2: b, L3: b, W: 1.0 / 3},
			{L1: b, L2: a, L3: b, W: 1.0 / 3},
			{L1: b, L2: b, L3: a, W: 1.0 / 3},
		}
	case 3:
		const third = 1.0 / 3
		const a, b = 0.6, 0.2
		return []BarycentricPoint{
			{L1: third, L2: third, L3: third, W: -27.0 / 48},
			{L1: a, L2: b, L3: b, W: 25.0 / 48},
			{L1: b, L2: a, L3: b, W: 25.0 / 48},
			{L1: b, L2: b, L3: a, W: 25.0 / 48},
		}
	case 4:
		const a1, a2 = 0.445948490915965, 0.108103018168070
		const b1, b2 = 0.091576213509771, 0.816847572980459
		const wA, wB = 0.223381589678011, 0.109951743655322
		return []BarycentricPoint{
			{L1: a1, L2: a1, L3: a2, W: wA},
			{L1: a1, L2: a2, L3: a1, W: wA},
			{L1: a2, L2: a1, L3: a1, W: wA},
			{L1: b1, L2: b1, L3: b2, W: wB},
			{L1: b1, L2: b2, L3: b1, W: wB},
			{L1: b2, L2: b1, L3: b1, W: wB},
		}
	default:
		panic(fmt.Sprintf("gaussrule: unsupported triangle rule order %d", order))
	}
}
