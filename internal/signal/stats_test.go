package signal

import (
	"errors"
	"math"
	"testing"
)

func TestSummaryEmpty(t *testing.T) {
	t.Parallel()
	if _, _, err := Summary(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Summary(nil) = %v, want ErrInvalidInput", err)
	}
	if _, _, err := Summary([]float64{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Summary(empty) = %v, want ErrInvalidInput", err)
	}
}

func TestSummaryConstantSequence(t *testing.T) {
	t.Parallel()
	seq := []float64{5, 5, 5, 5, 5, 5}
	mean, sigma, err := Summary(seq)
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if mean != 5 {
		t.Errorf("mean = %f, want 5", mean)
	}
	if sigma != 0 {
		t.Errorf("sigma = %f, want 0", sigma)
	}
}

func TestSummaryPopulationFormula(t *testing.T) {
	t.Parallel()
	// mean = 3; population sigma = sqrt(((1-3)^2+(3-3)^2+(5-3)^2)/3).
	seq := []float64{1, 3, 5}
	mean, sigma, err := Summary(seq)
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if math.Abs(mean-3) > 1e-12 {
		t.Errorf("mean = %f, want 3", mean)
	}
	want := math.Sqrt(8.0 / 3.0)
	if math.Abs(sigma-want) > 1e-12 {
		t.Errorf("sigma = %f, want %f (population formula, n divisor)", sigma, want)
	}
}

func TestSummarySingleElement(t *testing.T) {
	t.Parallel()
	mean, sigma, err := Summary([]float64{7.5})
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if mean != 7.5 || sigma != 0 {
		t.Errorf("Summary([7.5]) = (%f, %f), want (7.5, 0)", mean, sigma)
	}
}
