// Package element defines the background-grid cell container: integration
// points, the Element type each grid cell owns, and the Container
// that publishes cells produced by the pipeline's worker pool along with
// its six directional neighbor walks.
package element

import "github.com/embedquad/quadgen/geometry3d"

// IntegrationPoint is a single interior cubature point: a physical
// position and a strictly positive weight once published.
type IntegrationPoint struct {
	Position geometry3d.Point
	Weight   float64
}

// BoundaryIntegrationPoint additionally carries the outward unit normal of
// the boundary triangle it was sampled from, needed by the moment-fitting
// divergence-theorem boundary integral.
type BoundaryIntegrationPoint struct {
	Position geometry3d.Point
	Normal   geometry3d.Point
	Weight   float64
}
