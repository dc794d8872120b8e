package signal

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Pad extends seq to target length by prepending synthetic dE/dx values, so
// the measured track remains the trailing portion of the result. Each
// synthetic value is drawn from a Normal(mean, sigma) and redrawn until it
// is non-negative. The redraw loop is plain rejection sampling, not a
// truncated normal: the padded distribution is biased towards positive
// values, matching what the network saw during training.
//
// src selects the noise source; nil uses the shared global generator. The
// synthetic prefix is laid out so that the draw order matches repeated
// front-insertion: the first draw lands immediately before the measured
// data and later draws extend towards the front.
//
// If seq already has target or more points it is returned unchanged.
func Pad(seq []float64, target int, mean, sigma float64, src rand.Source) []float64 {
	if len(seq) >= target {
		return seq
	}

	dist := distuv.Normal{Mu: mean, Sigma: sigma, Src: src}

	out := make([]float64, target)
	fill := target - len(seq)
	for h := 0; h < fill; h++ {
		v := dist.Rand()
		for v < 0 {
			v = dist.Rand()
		}
		out[fill-1-h] = v
	}
	copy(out[fill:], seq)
	return out
}

// FixedSource returns a deterministically seeded noise source. The upstream
// implementation constructed a default-seeded generator on every padding
// call, so every short track of the same shape received an identical
// synthetic prefix; passing FixedSource(0) to Pad reproduces that behaviour
// for compatibility studies and regression tests.
func FixedSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}
