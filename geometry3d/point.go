// Package geometry3d provides the value types and primitives shared by the
// rest of the module: points, axis-aligned bounding boxes, rays, and the
// Möller–Trumbore ray-triangle test.
package geometry3d

import "math"

// Point is a location in three-dimensional space.
type Point struct {
	X, Y, Z float64
}

// NewPoint builds a Point from its three components.
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product p×q.
func (p Point) Cross(q Point) Point {
	return Point{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Normalized returns p scaled to unit length. Panics if p is the zero
// vector, since a normal direction cannot be recovered from it.
func (p Point) Normalized() Point {
	n := p.Norm()
	if n == 0 {
		panic("geometry3d: cannot normalize the zero vector")
	}
	return p.Scale(1 / n)
}

// Component returns the i'th component (0=X, 1=Y, 2=Z).
func (p Point) Component(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	default:
		panic("geometry3d: component index out of range")
	}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{math.Min(p.X, q.X), math.Min(p.Y, q.Y), math.Min(p.Z, q.Z)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{math.Max(p.X, q.X), math.Max(p.Y, q.Y), math.Max(p.Z, q.Z)}
}
