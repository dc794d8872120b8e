package features

import (
	"fmt"
	"math/rand/v2"

	"github.com/argoncube/trackpid/internal/config"
	"github.com/argoncube/trackpid/internal/signal"
	"github.com/argoncube/trackpid/internal/track"
)

// Assembler turns a reconstructed track into the two network inputs. It is
// stateless across calls apart from the optional noise-source factory, so a
// single Assembler may serve concurrent tracks as long as each call draws
// padding noise from its own source.
type Assembler struct {
	minTrackPoints int
	dedxLength     int
	maxCharge      float64
	maxChargeJump  float64

	topology TopologySource

	// randSource supplies the padding noise source for one call. nil falls
	// back to the shared global generator.
	randSource func() rand.Source
}

// AssemblerOption customises an Assembler.
type AssemblerOption func(*Assembler)

// WithRandSource sets the factory used to obtain a padding noise source per
// NetworkInputs call. Pass func() rand.Source { return signal.FixedSource(0) }
// to reproduce the upstream fixed-seed padding behaviour.
func WithRandSource(f func() rand.Source) AssemblerOption {
	return func(a *Assembler) { a.randSource = f }
}

// NewAssembler builds an Assembler from validated configuration and a
// topology source. The configuration is re-validated so a hand-built Config
// that skipped Load cannot smuggle in a degenerate window.
func NewAssembler(cfg *config.Config, topo TopologySource, opts ...AssemblerOption) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topo == nil {
		return nil, fmt.Errorf("%w: topology source is required", config.ErrConfig)
	}
	a := &Assembler{
		minTrackPoints: cfg.GetMinTrackPoints(),
		dedxLength:     cfg.GetDedxLength(),
		maxCharge:      cfg.GetMaxCharge(),
		maxChargeJump:  cfg.GetMaxChargeJump(),
		topology:       topo,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// MinTrackPoints returns the configured rejection threshold.
func (a *Assembler) MinTrackPoints() int { return a.minTrackPoints }

// DedxLength returns the configured network input length.
func (a *Assembler) DedxLength() int { return a.dedxLength }

// NetworkInputs computes both network inputs for a track:
//
//  1. Tracks with fewer recorded points than the minimum are rejected with
//     ErrInsufficientData before anything is touched.
//  2. The dE/dx sequence is smoothed in place (clamp + jump removal).
//  3. The dE/dx mean and sigma are taken over a window of
//     (dedxLength-minTrackPoints)/3 points read backwards from just before
//     the track end. This is the middle stretch of the eventual network input,
//     clear of both the padded region and the stopping rise at the very end.
//  4. Short sequences are padded to dedxLength with noise matching the
//     window statistics; the measured track stays at the tail.
//  5. The trailing dedxLength samples become the dE/dx input.
//  6. The deflection summary over the full trajectory and the topology
//     counts complete the variable vector.
func (a *Assembler) NetworkInputs(trk *track.Track) (*Inputs, error) {
	if trk.NPoints() < a.minTrackPoints {
		return nil, fmt.Errorf("%w: %d points, need %d", ErrInsufficientData, trk.NPoints(), a.minTrackPoints)
	}

	dedx := trk.Dedx
	if err := signal.Smooth(dedx, a.maxCharge, a.maxChargeJump); err != nil {
		return nil, fmt.Errorf("smoothing track %s: %w", trk.ID, err)
	}

	window := a.statsWindow(dedx)
	dedxMean, dedxSigma, err := signal.Summary(window)
	if err != nil {
		return nil, fmt.Errorf("dedx statistics for track %s: %w", trk.ID, err)
	}

	if len(dedx) < a.dedxLength {
		var src rand.Source
		if a.randSource != nil {
			src = a.randSource()
		}
		dedx = signal.Pad(dedx, a.dedxLength, dedxMean, dedxSigma, src)
		trk.Dedx = dedx
	}

	final := make([]float64, a.dedxLength)
	copy(final, dedx[len(dedx)-a.dedxLength:])

	deflMean, deflSigma, err := track.DeflectionSummary(trk.Directions)
	if err != nil {
		return nil, fmt.Errorf("deflection for track %s: %w", trk.ID, err)
	}

	nTracks, nShowers, nGrand, err := a.topology.ChildCounts(trk.ID)
	if err != nil {
		return nil, fmt.Errorf("topology counts for track %s: %w", trk.ID, err)
	}

	return &Inputs{
		Dedx: final,
		Variables: FeatureVector{
			NTracks:        nTracks,
			NShowers:       nShowers,
			NGrandchildren: nGrand,
			DedxMean:       dedxMean,
			DedxSigma:      dedxSigma,
			DeflectionMean: deflMean,
			DeflectionSig:  deflSigma,
		},
	}, nil
}

// statsWindow selects the sub-sequence used for the dE/dx summary
// statistics, read in reverse order: windowSize points starting
// windowSize+1 elements before the sequence end. Config validation
// guarantees the indices are in range for any accepted track.
func (a *Assembler) statsWindow(dedx []float64) []float64 {
	windowSize := (a.dedxLength - a.minTrackPoints) / 3
	start := len(dedx) - 1 - windowSize
	end := len(dedx) - 1 - 2*windowSize

	window := make([]float64, 0, windowSize)
	for e := start; e > end; e-- {
		window = append(window, dedx[e])
	}
	return window
}

// DedxInput returns only the dE/dx network input for a track. Debug helper
// mirroring NetworkInputs; the track is smoothed and padded in place.
func (a *Assembler) DedxInput(trk *track.Track) ([]float64, error) {
	in, err := a.NetworkInputs(trk)
	if err != nil {
		return nil, err
	}
	return in.Dedx, nil
}

// VariableVector returns only the seven-variable summary input for a track.
func (a *Assembler) VariableVector(trk *track.Track) (FeatureVector, error) {
	in, err := a.NetworkInputs(trk)
	if err != nil {
		return FeatureVector{}, err
	}
	return in.Variables, nil
}
