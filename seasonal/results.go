package seasonal

import (
	"time"

	"github.com/salesforecaster/go-salesforecaster/forecast"
)

type Results struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`

	SeriesComponents   forecast.Components `json:"series_components"`
	ResidualComponents forecast.Components `json:"residual_components"`
}

// Tail returns the last n rows of the results
func (r *Results) Tail(n int) *Results {
	start := max(len(r.T)-n, 0)
	return &Results{
		T:                  r.T[start:],
		Forecast:           r.Forecast[start:],
		Upper:              r.Upper[start:],
		Lower:              r.Lower[start:],
		SeriesComponents:   r.SeriesComponents.Tail(n),
		ResidualComponents: r.ResidualComponents.Tail(n),
	}
}
