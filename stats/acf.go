package stats

import (
	"gonum.org/v1/gonum/stat"
)

// ACF returns the sample autocorrelation for lags 0 through maxLag. maxLag is capped at
// len(y)-1.
func ACF(y []float64, maxLag int) ([]float64, error) {
	n := len(y)
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	if maxLag < 0 {
		return nil, ErrInvalidLags
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(y, nil)
	variance := 0.0
	for _, v := range y {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil, ErrConstantSeries
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf, nil
}
