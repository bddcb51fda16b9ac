package brep

import "github.com/embedquad/quadgen/geometry3d"

// Face identifies one of the six faces of an axis-aligned box.
type Face int

const (
	FaceXMin Face = iota
	FaceXMax
	FaceYMin
	FaceYMax
	FaceZMin
	FaceZMax
)

// Axis returns the coordinate axis (0=x,1=y,2=z) that Face is normal to.
func (f Face) Axis() int {
	return int(f) / 2
}

// OutwardNormal returns the box-outward unit normal of Face.
func (f Face) OutwardNormal() geometry3d.Point {
	switch f {
	case FaceXMin:
		return geometry3d.Point{X: -1}
	case FaceXMax:
		return geometry3d.Point{X: 1}
	case FaceYMin:
		return geometry3d.Point{Y: -1}
	case FaceYMax:
		return geometry3d.Point{Y: 1}
	case FaceZMin:
		return geometry3d.Point{Z: -1}
	case FaceZMax:
		return geometry3d.Point{Z: 1}
	default:
		panic("brep: invalid face index")
	}
}

// planeValue returns the coordinate of Face's plane for box.
func (f Face) planeValue(box geometry3d.BoundingBox) float64 {
	switch f {
	case FaceXMin:
		return box.Lower.X
	case FaceXMax:
		return box.Upper.X
	case FaceYMin:
		return box.Lower.Y
	case FaceYMax:
		return box.Upper.Y
	case FaceZMin:
		return box.Lower.Z
	case FaceZMax:
		return box.Upper.Z
	default:
		panic("brep: invalid face index")
	}
}

// allFaces enumerates the six faces in a fixed order.
var allFaces = [6]Face{FaceXMin, FaceXMax, FaceYMin, FaceYMax, FaceZMin, FaceZMax}

// signedDistance returns the signed distance from p to Face's plane,
// positive on the box-interior side.
func (f Face) signedDistance(p geometry3d.Point, box geometry3d.BoundingBox) float64 {
	v := f.planeValue(box)
	switch f {
	case FaceXMin:
		return p.X - v
	case FaceXMax:
		return v - p.X
	case FaceYMin:
		return p.Y - v
	case FaceYMax:
		return v - p.Y
	case FaceZMin:
		return p.Z - v
	case FaceZMax:
		return v - p.Z
	default:
		panic("brep: invalid face index")
	}
}

// onPlane reports whether p lies on Face's plane within tolerance.
func (f Face) onPlane(p geometry3d.Point, box geometry3d.BoundingBox, tolerance float64) bool {
	d := f.signedDistance(p, box)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}
