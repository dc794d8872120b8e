package signal

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSmoothTooShort(t *testing.T) {
	t.Parallel()
	for _, seq := range [][]float64{nil, {}, {1}, {1, 2}} {
		if err := Smooth(seq, 1000, 500); err == nil {
			t.Errorf("Smooth(%v) = nil, want error", seq)
		} else if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Smooth(%v) = %v, want ErrInvalidInput", seq, err)
		}
	}
}

func TestSmoothNoOpOnCleanData(t *testing.T) {
	t.Parallel()

	// Values inside [0, maxValue] with jumps below maxJump pass untouched.
	seq := []float64{2.1, 2.3, 1.9, 2.8, 3.0, 2.4}
	want := append([]float64(nil), seq...)

	if err := Smooth(seq, 1000, 500); err != nil {
		t.Fatalf("Smooth() failed: %v", err)
	}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("clean sequence modified (-want +got):\n%s", diff)
	}
}

func TestSmoothClampsRange(t *testing.T) {
	t.Parallel()

	seq := []float64{-3, 1500, 200, -0.1, 300}
	if err := Smooth(seq, 1000, 500); err != nil {
		t.Fatalf("Smooth() failed: %v", err)
	}
	want := []float64{0, 100, 200, 0, 300}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("clamp+jump result (-want +got):\n%s", diff)
	}
	for i, v := range seq {
		if v < 0 || v > 1000 {
			t.Errorf("seq[%d] = %f outside [0, 1000]", i, v)
		}
	}
}

func TestSmoothInteriorJump(t *testing.T) {
	t.Parallel()

	// 600 rises 590 above its predecessor; replaced by the neighbour
	// average (10+12)/2.
	seq := []float64{10, 10, 10, 600, 12, 10}
	if err := Smooth(seq, 1000, 500); err != nil {
		t.Fatalf("Smooth() failed: %v", err)
	}
	want := []float64{10, 10, 10, 11, 12, 10}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("interior jump not corrected (-want +got):\n%s", diff)
	}
}

func TestSmoothEndpointExtrapolation(t *testing.T) {
	t.Parallel()

	t.Run("first point", func(t *testing.T) {
		t.Parallel()
		// seq[0]-seq[1] = 590 > 500 → seq[0] = seq[1] + (seq[1]-seq[2]) = 6.
		seq := []float64{600, 10, 14, 12}
		if err := Smooth(seq, 1000, 500); err != nil {
			t.Fatalf("Smooth() failed: %v", err)
		}
		if seq[0] != 6 {
			t.Errorf("seq[0] = %f, want 6 (backward extrapolation)", seq[0])
		}
	})

	t.Run("last point", func(t *testing.T) {
		t.Parallel()
		// seq[3]-seq[2] = 586 > 500 → seq[3] = seq[2] + (seq[2]-seq[1]) = 18.
		seq := []float64{12, 10, 14, 600}
		if err := Smooth(seq, 1000, 500); err != nil {
			t.Fatalf("Smooth() failed: %v", err)
		}
		if seq[3] != 18 {
			t.Errorf("seq[3] = %f, want 18 (forward extrapolation)", seq[3])
		}
	})
}

func TestSmoothSingleForwardPass(t *testing.T) {
	t.Parallel()

	// The interior pass only tests the rising difference against the
	// previous (possibly already modified) element. A drop relative to the
	// next element survives: after fixing index 2 the sequence still falls
	// sharply from index 3 to 4, and that is left alone.
	seq := []float64{10, 10, 900, 800, 10, 10}
	if err := Smooth(seq, 1000, 500); err != nil {
		t.Fatalf("Smooth() failed: %v", err)
	}
	// Index 2: 900-10 > 500 → (10+800)/2 = 405.
	// Index 3: 800-405 = 395 <= 500 → untouched.
	want := []float64{10, 10, 405, 800, 10, 10}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("forward pass semantics changed (-want +got):\n%s", diff)
	}
}

func TestSmoothIdempotentOnRandomCleanData(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 7))
	const maxValue, maxJump = 1000.0, 500.0

	for trial := 0; trial < 50; trial++ {
		seq := make([]float64, 64)
		seq[0] = rng.Float64() * maxValue
		for i := 1; i < len(seq); i++ {
			// Keep every jump within the threshold.
			step := (rng.Float64()*2 - 1) * maxJump
			v := seq[i-1] + step
			if v < 0 {
				v = 0
			}
			if v > maxValue {
				v = maxValue
			}
			seq[i] = v
		}
		want := append([]float64(nil), seq...)
		if err := Smooth(seq, maxValue, maxJump); err != nil {
			t.Fatalf("Smooth() failed: %v", err)
		}
		if diff := cmp.Diff(want, seq); diff != "" {
			t.Fatalf("trial %d: smooth not a no-op on clean data (-want +got):\n%s", trial, diff)
		}
	}
}
