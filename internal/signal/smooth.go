package signal

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks degenerate sequences (empty, or too short for the
// requested operation). The feature assembler orders its checks so these
// are never reached in normal operation, but they fail loudly rather than
// producing NaN if a caller bypasses those checks.
var ErrInvalidInput = errors.New("invalid input sequence")

// Smooth cleans a dE/dx sequence in place. Two passes:
//
//  1. Clamp: values above maxValue become maxValue, negative values become 0.
//  2. Jump removal on the clamped data: the first and last points are
//     linearly extrapolated from their two inward neighbours when they sit
//     more than maxJump above the adjacent point; interior points that rise
//     more than maxJump above the previous point are replaced by the average
//     of their neighbours.
//
// The interior pass runs left to right and only tests the rising difference
// against the (possibly already modified) previous element. A smoothed value
// can therefore still differ sharply from its next neighbour; downstream
// consumers were trained on exactly this filter, so the asymmetry is part of
// the contract.
//
// Sequences shorter than 3 points cannot be extrapolated and return
// ErrInvalidInput.
func Smooth(seq []float64, maxValue, maxJump float64) error {
	n := len(seq)
	if n < 3 {
		return fmt.Errorf("%w: smoothing needs at least 3 points, got %d", ErrInvalidInput, n)
	}

	for i, v := range seq {
		if v > maxValue {
			seq[i] = maxValue
		}
		if v < 0 {
			seq[i] = 0
		}
	}

	if seq[0]-seq[1] > maxJump {
		seq[0] = seq[1] + (seq[1] - seq[2])
	}
	if seq[n-1]-seq[n-2] > maxJump {
		seq[n-1] = seq[n-2] + (seq[n-2] - seq[n-3])
	}
	for q := 1; q < n-1; q++ {
		if seq[q]-seq[q-1] > maxJump {
			seq[q] = 0.5 * (seq[q-1] + seq[q+1])
		}
	}
	return nil
}
