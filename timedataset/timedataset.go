package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from less than two time points")
	ErrNegativePeriods    = errors.New("negative number of future periods")
)

// DefaultFreq is used to extend a series whose frequency cannot be inferred
const DefaultFreq = 24 * time.Hour

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length and the time points are strictly increasing.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// Freq infers the sampling interval of the dataset, falling back to DefaultFreq when
// there are not enough points.
func (td *TimeDataset) Freq() time.Duration {
	freq, err := TimeSlice(td.T).EstimateFreq()
	if err != nil || freq <= 0 {
		return DefaultFreq
	}
	return freq
}

// FutureTimes returns the n calendar days following the last observation
func (td *TimeDataset) FutureTimes(n int) ([]time.Time, error) {
	return td.FutureTimesAt(n, DefaultFreq)
}

// FutureTimesAt returns the n time points following the last observation spaced by freq.
// Use Freq to continue at the inferred sampling interval.
func (td *TimeDataset) FutureTimesAt(n int, freq time.Duration) ([]time.Time, error) {
	if td.Len() == 0 {
		return nil, ErrNoTrainingData
	}
	if n < 0 {
		return nil, fmt.Errorf("got %d periods, %w", n, ErrNegativePeriods)
	}
	if freq <= 0 {
		freq = DefaultFreq
	}
	return TimeSlice(td.T).Extend(n, freq), nil
}

// MakeFutureTimes returns the training time points followed by n future calendar days.
func (td *TimeDataset) MakeFutureTimes(n int) ([]time.Time, error) {
	return td.MakeFutureTimesAt(n, DefaultFreq)
}

// MakeFutureTimesAt returns the training time points followed by n future time points
// spaced by freq.
func (td *TimeDataset) MakeFutureTimesAt(n int, freq time.Duration) ([]time.Time, error) {
	future, err := td.FutureTimesAt(n, freq)
	if err != nil {
		return nil, err
	}
	t := make([]time.Time, 0, len(td.T)+len(future))
	t = append(t, td.T...)
	return append(t, future...), nil
}
