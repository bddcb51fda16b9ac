package element

import "github.com/embedquad/quadgen/geometry3d"

// TrimmedDomain is the subset of trimmeddomain.TrimmedDomain's surface
// that an Element needs to reference. Kept as an interface here, rather
// than importing the trimmeddomain package directly, since trimmeddomain
// itself depends on element.IntegrationPoint.
type TrimmedDomain interface {
	IsInside(p geometry3d.Point) bool
	BoundingBox() geometry3d.BoundingBox
}

// Element is a single background-grid cell together with the cubature
// rule and (if trimmed) trimmed-domain geometry that resolves it. An
// Element is built and mutated only by the worker that owns it during a
// sweep; once handed to a Container it must not be mutated further.
type Element struct {
	ID int

	PhysicalBox   geometry3d.BoundingBox
	ParametricBox geometry3d.BoundingBox

	IsTrimmed bool
	Domain    TrimmedDomain // nil unless IsTrimmed

	Points []IntegrationPoint
}

// NumPoints returns the number of interior integration points assigned
// to this cell.
func (e *Element) NumPoints() int { return len(e.Points) }
