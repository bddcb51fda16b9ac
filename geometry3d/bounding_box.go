package geometry3d

import "math"

// BoundingBox is an axis-aligned box, lower <= upper componentwise. It is a
// value type and is immutable once constructed.
type BoundingBox struct {
	Lower, Upper Point
}

// NewBoundingBox builds a box from explicit corners, canonicalizing so that
// Lower is componentwise <= Upper regardless of argument order.
func NewBoundingBox(a, b Point) BoundingBox {
	return BoundingBox{Lower: a.Min(b), Upper: a.Max(b)}
}

// EmptyBoundingBox returns a box whose extents are inverted so that the
// first Extend call establishes real bounds.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		Lower: Point{math.Inf(1), math.Inf(1), math.Inf(1)},
		Upper: Point{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Extend grows the box, if necessary, to contain p.
func (b BoundingBox) Extend(p Point) BoundingBox {
	return BoundingBox{Lower: b.Lower.Min(p), Upper: b.Upper.Max(p)}
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{Lower: b.Lower.Min(o.Lower), Upper: b.Upper.Max(o.Upper)}
}

// Center returns the box's centroid.
func (b BoundingBox) Center() Point {
	return b.Lower.Add(b.Upper).Scale(0.5)
}

// Size returns the box's extent along each axis.
func (b BoundingBox) Size() Point {
	return b.Upper.Sub(b.Lower)
}

// Volume returns the box's volume; zero for a degenerate (flat) box.
func (b BoundingBox) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// LongestAxis returns the index (0,1,2) of the box's longest edge.
func (b BoundingBox) LongestAxis() int {
	s := b.Size()
	axis := 0
	longest := s.X
	if s.Y > longest {
		axis, longest = 1, s.Y
	}
	if s.Z > longest {
		axis = 2
	}
	return axis
}

// Contains reports whether p lies within the box, inclusive of the
// boundary.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Lower.X && p.X <= b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Upper.Y &&
		p.Z >= b.Lower.Z && p.Z <= b.Upper.Z
}

// Overlaps reports whether b and o share any volume, inclusive of touching
// faces.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.Lower.X <= o.Upper.X && b.Upper.X >= o.Lower.X &&
		b.Lower.Y <= o.Upper.Y && b.Upper.Y >= o.Lower.Y &&
		b.Lower.Z <= o.Upper.Z && b.Upper.Z >= o.Lower.Z
}

// Shrink returns a box moved inward by tolerance along every face. A
// negative tolerance expands the box. Used by the cell classifier so a
// touch-only contact is not reported as an intersection when tolerance>0.
func (b BoundingBox) Shrink(tolerance float64) BoundingBox {
	delta := Point{tolerance, tolerance, tolerance}
	lower := b.Lower.Add(delta)
	upper := b.Upper.Sub(delta)
	return BoundingBox{Lower: lower.Min(upper), Upper: lower.Max(upper)}
}

// Expand returns a box grown outward by tolerance along every face.
func (b BoundingBox) Expand(tolerance float64) BoundingBox {
	return b.Shrink(-tolerance)
}

// Octant returns one of the 8 equal sub-boxes of b, indexed 0..7 with bit 0
// selecting the x-half, bit 1 the y-half, bit 2 the z-half.
func (b BoundingBox) Octant(index int) BoundingBox {
	c := b.Center()
	lower, upper := b.Lower, b.Upper
	if index&1 != 0 {
		lower.X = c.X
	} else {
		upper.X = c.X
	}
	if index&2 != 0 {
		lower.Y = c.Y
	} else {
		upper.Y = c.Y
	}
	if index&4 != 0 {
		lower.Z = c.Z
	} else {
		upper.Z = c.Z
	}
	return BoundingBox{Lower: lower, Upper: upper}
}
