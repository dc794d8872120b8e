// Package features assembles the fixed-size network inputs for the
// convolutional track particle-ID classifier: a fixed-length dE/dx sequence
// and a seven-variable summary vector.
package features

import (
	"errors"
)

// ErrInsufficientData marks tracks with too few trajectory points to
// classify. This is a recoverable condition, not a pipeline failure;
// callers skip the track.
var ErrInsufficientData = errors.New("track has too few points for PID")

// TopologySource reports child-topology counts for a particle from the
// reconstruction hierarchy. The counts live in the upstream event
// bookkeeping; the assembler only ever reads them through this interface.
type TopologySource interface {
	// ChildCounts returns the number of direct track-like children, direct
	// shower-like children, and grandchildren of the given particle.
	ChildCounts(trackID string) (nTracks, nShowers, nGrandchildren int, err error)
}

// FeatureVector is the seven-variable summary input of the network.
// Field order here is free; Slice() fixes the serialisation order the
// network was trained with.
type FeatureVector struct {
	NTracks        int     // direct track-like children
	NShowers       int     // direct shower-like children
	NGrandchildren int     // grandchildren across all children
	DedxMean       float64 // mean dE/dx over the statistics window
	DedxSigma      float64 // population sigma over the statistics window
	DeflectionMean float64 // mean trajectory deflection angle (radians)
	DeflectionSig  float64 // population sigma of the deflection angles
}

// Slice serialises the vector in the exact order the network expects:
// nTracks, nShowers, nGrandchildren, dedxMean, dedxSigma, deflectionMean,
// deflectionSigma. Reordering silently breaks inference; this is the only
// place the order is written down.
func (v FeatureVector) Slice() []float64 {
	return []float64{
		float64(v.NTracks),
		float64(v.NShowers),
		float64(v.NGrandchildren),
		v.DedxMean,
		v.DedxSigma,
		v.DeflectionMean,
		v.DeflectionSig,
	}
}

// Inputs bundles the two network inputs for a single track.
type Inputs struct {
	// Dedx is the smoothed, padded, trailing dE/dx window. Its length is
	// always exactly the configured dedx length.
	Dedx []float64

	// Variables is the seven-variable summary vector.
	Variables FeatureVector
}
