package track

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/argoncube/trackpid/internal/signal"
)

// DeflectionSummary computes the mean and population standard deviation of
// the angular deflection along a trajectory: for each consecutive pair of
// unit direction vectors it takes the opening angle (acos of the dot
// product), then summarises the resulting angle sequence. Large values mean
// a wobbly track, a strong separator between heavy and light particles.
//
// Fewer than two directions leave no angle to measure and return
// signal.ErrInvalidInput.
func DeflectionSummary(dirs []r3.Vec) (mean, sigma float64, err error) {
	if len(dirs) < 2 {
		return 0, 0, fmt.Errorf("%w: deflection needs at least 2 directions, got %d", signal.ErrInvalidInput, len(dirs))
	}

	angles := make([]float64, 0, len(dirs)-1)
	for p := 1; p < len(dirs); p++ {
		angles = append(angles, angleBetween(dirs[p], dirs[p-1]))
	}
	return signal.Summary(angles)
}

// angleBetween returns the opening angle between two vectors in radians.
// The cosine is clamped to [-1, 1] so float rounding on near-parallel unit
// vectors cannot push acos into NaN.
func angleBetween(a, b r3.Vec) float64 {
	cos := r3.Cos(a, b)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
