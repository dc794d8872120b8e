// Package inference invokes the pre-trained track particle-ID network and
// interprets its score vector.
package inference

import (
	"context"

	"github.com/argoncube/trackpid/internal/features"
)

// Engine runs the classifier on assembled network inputs. Implementations
// must be safe for concurrent use; the batch pipeline calls Classify from
// multiple goroutines.
type Engine interface {
	Classify(ctx context.Context, in *features.Inputs) (PIDResult, error)
}

// PIDResult is the network's score vector: one score per particle
// hypothesis, higher meaning more signal-like. Scores are as returned by
// the model. They are softmax outputs summing to roughly 1, but no
// normalisation is enforced here.
type PIDResult struct {
	Muon   float64 `json:"muon"`
	Pion   float64 `json:"pion"`
	Proton float64 `json:"proton"`
}

// IsValid reports whether the result looks like real network output:
// every score finite and inside [0, 1].
func (r PIDResult) IsValid() bool {
	for _, s := range []float64{r.Muon, r.Pion, r.Proton} {
		if !(s >= 0 && s <= 1) { // NaN fails this comparison too
			return false
		}
	}
	return true
}

// Best returns the highest-scoring hypothesis name and its score.
func (r PIDResult) Best() (string, float64) {
	best, score := "muon", r.Muon
	if r.Pion > score {
		best, score = "pion", r.Pion
	}
	if r.Proton > score {
		best, score = "proton", r.Proton
	}
	return best, score
}
