// Package stats holds the descriptive statistics and diagnostic tests shared by the
// forecasting models.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewPoints   = errors.New("too few points")
	ErrConstantSeries = errors.New("series has zero variance")
	ErrInvalidLags    = errors.New("number of lags must be positive")
	ErrInvalidWindow  = errors.New("window must be at least 2")
)

// DetectOutliers returns the indices of values at or beyond the Tukey fences built from the
// lowerPerc and upperPerc percentiles.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy))*upperPerc)) - 1
	lowerIdx = min(max(lowerIdx, 0), len(yCopy)-1)
	upperIdx = min(max(upperIdx, lowerIdx), len(yCopy)-1)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	if innerRange == 0 {
		return nil
	}
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] >= upper || y[i] <= lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// RollingStd returns the standard deviation of a trailing window ending at each point. The
// first window-1 points use the first full window.
func RollingStd(y []float64, window int) ([]float64, error) {
	if window < 2 {
		return nil, ErrInvalidWindow
	}
	if len(y) < window {
		return nil, ErrTooFewPoints
	}

	res := make([]float64, len(y))
	for i := window - 1; i < len(y); i++ {
		res[i] = stat.StdDev(y[i-window+1:i+1], nil)
	}
	for i := 0; i < window-1; i++ {
		res[i] = res[window-1]
	}
	return res, nil
}
