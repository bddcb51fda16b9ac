package gaussrule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegendre1DWeightsSumToIntervalLength(t *testing.T) {
	for n := 1; n <= 8; n++ {
		pts := Legendre1D(n)
		sum := 0.0
		for _, p := range pts {
			sum += p.W
		}
		assert.InDeltaf(t, 2.0, sum, 1e-10, "n=%d", n)
	}
}

func TestLegendre1DIntegratesPolynomialExactly(t *testing.T) {
	// An n-point Gauss-Legendre rule is exact for polynomials up to
	// degree 2n-1.
	n := 4
	pts := Legendre1D(n)
	degree := 2*n - 1
	got := 0.0
	for _, p := range pts {
		got += p.W * math.Pow(p.X, float64(degree))
	}
	// ∫_{-1}^{1} x^(2n-1) dx = 0 for odd degree.
	assert.InDelta(t, 0.0, got, 1e-9)

	degreeEven := 2*n - 2
	got = 0.0
	for _, p := range pts {
		got += p.W * math.Pow(p.X, float64(degreeEven))
	}
	want := 2.0 / (float64(degreeEven) + 1)
	assert.InDelta(t, want, got, 1e-9)
}

func TestLegendreOnIntervalRescales(t *testing.T) {
	pts := LegendreOnInterval(5, 2, 6)
	sum, weighted := 0.0, 0.0
	for _, p := range pts {
		sum += p.W
		weighted += p.W * p.X
	}
	assert.InDelta(t, 4.0, sum, 1e-9) // length of [2,6]
	assert.InDelta(t, 16.0, weighted, 1e-9) // ∫_2^6 x dx = 16
}

func TestTensorProduct3DPointCountAndWeightSum(t *testing.T) {
	pts := TensorProduct3D(2, 3, 2, 0, 1, 0, 1, 0, 1)
	assert.Len(t, pts, 12)
	sum := 0.0
	for _, p := range pts {
		sum += p.W
	}
	assert.InDelta(t, 1.0, sum, 1e-9) // volume of unit cube
}

func TestTriangleRuleWeightsSumToOne(t *testing.T) {
	for order := 1; order <= 4; order++ {
		rule := TriangleRule(order)
		sum := 0.0
		for _, p := range rule {
			sum += p.W
			assert.InDelta(t, 1.0, p.L1+p.L2+p.L3, 1e-12)
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "order=%d", order)
	}
}
