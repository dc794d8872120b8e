// Package pipeline wires feature assembly, inference and persistence into
// the per-track particle-ID flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/argoncube/trackpid/internal/features"
	"github.com/argoncube/trackpid/internal/inference"
	"github.com/argoncube/trackpid/internal/monitoring"
	"github.com/argoncube/trackpid/internal/track"
)

// Store is the subset of the result store the pipeline writes to.
type Store interface {
	RecordResult(trackID string, result inference.PIDResult, fv features.FeatureVector, model string) (string, error)
}

// Pipeline classifies reconstructed tracks end to end: assemble the network
// inputs, run the engine, optionally persist the scores.
type Pipeline struct {
	asm    *features.Assembler
	engine inference.Engine
	store  Store // nil disables persistence
	model  string
}

// New creates a Pipeline. store may be nil to skip persistence.
func New(asm *features.Assembler, engine inference.Engine, store Store, model string) (*Pipeline, error) {
	if asm == nil {
		return nil, errors.New("pipeline: assembler is required")
	}
	if engine == nil {
		return nil, errors.New("pipeline: inference engine is required")
	}
	return &Pipeline{asm: asm, engine: engine, store: store, model: model}, nil
}

// Outcome is the per-track result of a pipeline run.
type Outcome struct {
	TrackID string
	Result  inference.PIDResult
	Inputs  *features.Inputs

	// Skipped is set when the track had too few points for PID. Skipped
	// tracks carry no result and no error.
	Skipped bool

	// Err holds any non-recoverable failure for this track.
	Err error
}

// ClassifyTrack runs one track through the pipeline. Tracks below the
// minimum point count are skipped, not failed: the returned Outcome has
// Skipped set and a nil Err.
func (p *Pipeline) ClassifyTrack(ctx context.Context, trk *track.Track) Outcome {
	out := Outcome{TrackID: trk.ID}

	in, err := p.asm.NetworkInputs(trk)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientData) {
			monitoring.Logf("track %s: too few points for PID, skipping", trk.ID)
			out.Skipped = true
			return out
		}
		out.Err = fmt.Errorf("assembling inputs: %w", err)
		return out
	}
	out.Inputs = in

	result, err := p.engine.Classify(ctx, in)
	if err != nil {
		out.Err = fmt.Errorf("classifying track %s: %w", trk.ID, err)
		return out
	}
	out.Result = result

	if p.store != nil {
		if _, err := p.store.RecordResult(trk.ID, result, in.Variables, p.model); err != nil {
			out.Err = fmt.Errorf("persisting result for track %s: %w", trk.ID, err)
			return out
		}
	}
	return out
}

// ClassifyBatch runs every track through the pipeline with at most workers
// concurrent classifications. Outcomes are returned in input order. Calls
// are independent; the assembler's noise-source factory is invoked once per
// track so no generator is shared between goroutines.
func (p *Pipeline) ClassifyBatch(ctx context.Context, tracks []*track.Track, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(tracks))
	pl := pool.New().WithMaxGoroutines(workers)
	for i, trk := range tracks {
		i, trk := i, trk
		pl.Go(func() {
			outcomes[i] = p.ClassifyTrack(ctx, trk)
		})
	}
	pl.Wait()
	return outcomes
}
