// Package track defines the reconstructed-track domain types consumed by
// the particle-ID feature pipeline, and the trajectory "wobble" measure
// derived from them.
package track

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Track is a reconstructed particle track as delivered by the upstream
// reconstruction: an ordered dE/dx sample per trajectory point and the unit
// direction vector at each point. Instances are transient, built per
// classification request and never shared between requests. The pipeline
// mutates Dedx in place (smoothing, padding); Directions are read-only.
type Track struct {
	// ID identifies the track within its event for logging and persistence.
	ID string

	// Dedx holds the measured ionisation signal, one non-negative sample
	// per trajectory point, ordered from track start to track end.
	Dedx []float64

	// Directions holds the unit direction vector at each trajectory point,
	// in the same order as Dedx.
	Directions []r3.Vec
}

// NPoints returns the number of recorded dE/dx trajectory points.
func (t *Track) NPoints() int {
	return len(t.Dedx)
}

// CloneDedx returns a copy of the dE/dx sequence, for callers that need the
// raw samples after the pipeline has smoothed the track in place.
func (t *Track) CloneDedx() []float64 {
	out := make([]float64, len(t.Dedx))
	copy(out, t.Dedx)
	return out
}
