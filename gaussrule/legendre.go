// Package gaussrule builds Gauss-Legendre quadrature rules: 1D nodes and
// weights on an arbitrary interval via the Golub-Welsch eigenvalue method,
// their tensor product over a hexahedral cell, and the fixed low-order
// symmetric rules used for boundary triangle integration.
package gaussrule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point1D is a single 1D quadrature node and its weight on [-1,1].
type Point1D struct {
	X, W float64
}

// Legendre1D returns the n-point Gauss-Legendre rule on [-1,1], computed
// from the eigenvalues and first eigenvector components of the symmetric
// tridiagonal Jacobi matrix for the Legendre recurrence (Golub-Welsch).
func Legendre1D(n int) []Point1D {
	if n < 1 {
		panic("gaussrule: n must be >= 1")
	}
	if n == 1 {
		return []Point1D{{X: 0, W: 2}}
	}

	jacobi := mat.NewSymDense(n, nil)
	for k := 1; k < n; k++ {
		beta := float64(k) / math.Sqrt(4*float64(k)*float64(k)-1)
		jacobi.SetSym(k-1, k, beta)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(jacobi, true); !ok {
		panic("gaussrule: eigendecomposition of Jacobi matrix failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	points := make([]Point1D, n)
	for i := 0; i < n; i++ {
		v0 := vectors.At(0, i)
		points[i] = Point1D{X: values[i], W: 2 * v0 * v0}
	}
	// EigenSym does not guarantee an ascending order across gonum versions;
	// sort explicitly since callers rely on monotone nodes.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && points[j].X < points[j-1].X; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
	return points
}

// LegendreOnInterval maps Legendre1D's [-1,1] rule onto [a,b].
func LegendreOnInterval(n int, a, b float64) []Point1D {
	base := Legendre1D(n)
	scale := (b - a) / 2
	out := make([]Point1D, n)
	for i, p := range base {
		out[i] = Point1D{
			X: a + (p.X+1)*scale,
			W: p.W * scale,
		}
	}
	return out
}

// Point3D is a tensor-product quadrature node in 3D with its combined
// weight (already including the Jacobian of the mapping onto [a,b]^3).
type Point3D struct {
	X, Y, Z, W float64
}

// TensorProduct3D builds the (nx*ny*nz)-point tensor-product Gauss rule
// over the box [ax,bx]x[ay,by]x[az,bz].
func TensorProduct3D(nx, ny, nz int, ax, bx, ay, by, az, bz float64) []Point3D {
	px := LegendreOnInterval(nx, ax, bx)
	py := LegendreOnInterval(ny, ay, by)
	pz := LegendreOnInterval(nz, az, bz)
	out := make([]Point3D, 0, nx*ny*nz)
	for _, x := range px {
		for _, y := range py {
			for _, z := range pz {
				out = append(out, Point3D{X: x.X, Y: y.X, Z: z.X, W: x.W * y.W * z.W})
			}
		}
	}
	return out
}

// String renders a Point3D for debug logging.
func (p Point3D) String() string {
	return fmt.Sprintf("(%.6g,%.6g,%.6g;w=%.6g)", p.X, p.Y, p.Z, p.W)
}
