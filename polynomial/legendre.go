// Package polynomial implements the shifted Legendre polynomial basis used
// by moment fitting: a one-dimensional polynomial family orthogonal on an
// arbitrary interval [a,b], together with its closed-form antiderivative.
// The momentfitting package combines these into a trivariate tensor basis
// over a box.
package polynomial

// LegendreP evaluates the standard (unshifted) Legendre polynomial of
// degree n at x on [-1,1] via the three-term recurrence
// (k+1)P_{k+1}(x) = (2k+1)xP_k(x) - kP_{k-1}(x).
func LegendreP(n int, x float64) float64 {
	if n < 0 {
		panic("polynomial: negative Legendre degree")
	}
	if n == 0 {
		return 1
	}
	if n == 1 {
		return x
	}
	pPrev, pCurr := 1.0, x
	for k := 1; k < n; k++ {
		pNext := ((2*float64(k)+1)*x*pCurr - float64(k)*pPrev) / float64(k+1)
		pPrev, pCurr = pCurr, pNext
	}
	return pCurr
}

// Eval evaluates the degree-order shifted Legendre polynomial on [a,b] at
// x, mapping x linearly onto [-1,1] before applying LegendreP. This is the
// f_x(x, order, a, b) building block of the moment-fitting basis.
func Eval(x float64, order int, a, b float64) float64 {
	t := (2*x - a - b) / (b - a)
	return LegendreP(order, t)
}

// Integral returns an antiderivative of Eval(., order, a, b) at x. It is
// defined only up to an additive constant per order: moment fitting only
// ever uses differences of Integral across a closed surface, and the flux
// of a constant field through a closed surface is zero, so the missing
// constant never affects the assembled boundary integral.
func Integral(x float64, order int, a, b float64) float64 {
	if order == 0 {
		return x
	}
	t := (2*x - a - b) / (b - a)
	return (b - a) / 2 * (LegendreP(order+1, t) - LegendreP(order-1, t)) / float64(2*order+1)
}
