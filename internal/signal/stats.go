package signal

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Summary returns the population mean and standard deviation of seq
// (sigma divides by n, not n-1; the network was trained against
// population statistics). An empty sequence returns ErrInvalidInput
// instead of NaN.
func Summary(seq []float64) (mean, sigma float64, err error) {
	if len(seq) == 0 {
		return 0, 0, fmt.Errorf("%w: cannot summarise an empty sequence", ErrInvalidInput)
	}
	mean, sigma = stat.PopMeanStdDev(seq, nil)
	return mean, sigma, nil
}
