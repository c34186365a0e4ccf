//go:generate mockgen -source=strategy.go -destination=mock_strategy_test.go -package=salesforecaster

package salesforecaster

import (
	"fmt"

	"github.com/salesforecaster/go-salesforecaster/arima"
	"github.com/salesforecaster/go-salesforecaster/score"
	"github.com/salesforecaster/go-salesforecaster/seasonal"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
)

// strategy fits a model on a daily series and forecasts horizon periods past its last
// observation
type strategy interface {
	FitAndForecast(series *timedataset.TimeDataset, horizon int) (*Result, error)
}

type seasonalStrategy struct {
	opt *seasonal.Options
}

func (s *seasonalStrategy) FitAndForecast(series *timedataset.TimeDataset, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d periods, %w", horizon, seasonal.ErrInvalidPeriods)
	}
	f, err := seasonal.New(s.opt)
	if err != nil {
		return nil, err
	}
	if err := f.Fit(series.T, series.Y); err != nil {
		return nil, err
	}
	res, err := f.Forecast(horizon)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(res.T))
	for i := range res.T {
		rows[i] = Row{
			Date:     res.T[i],
			Forecast: res.Forecast[i],
			Lower:    res.Lower[i],
			Upper:    res.Upper[i],
		}
	}
	return &Result{Rows: rows, Scores: fitScores(f.FitResults().Forecast, series.Y), Seasonal: f}, nil
}

type arimaStrategy struct {
	opt       *arima.Options
	inferFreq bool
}

// FitAndForecast fills the forecast column with the last in-sample fitted value for every
// row. Lower and Upper are the per step confidence interval.
func (s *arimaStrategy) FitAndForecast(series *timedataset.TimeDataset, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d periods, %w", horizon, arima.ErrInvalidSteps)
	}
	m, err := arima.New(s.opt.Order)
	if err != nil {
		return nil, err
	}
	if err := m.Fit(series.Y); err != nil {
		return nil, err
	}
	lower, upper, err := m.ConfInt(horizon, s.opt.Alpha)
	if err != nil {
		return nil, err
	}
	freq := timedataset.DefaultFreq
	if s.inferFreq {
		freq = series.Freq()
	}
	dates, err := series.FutureTimesAt(horizon, freq)
	if err != nil {
		return nil, err
	}

	fitted := m.FittedValues()
	last := fitted[len(fitted)-1]
	rows := make([]Row, horizon)
	for i := range rows {
		rows[i] = Row{
			Date:     dates[i],
			Forecast: last,
			Lower:    lower[i],
			Upper:    upper[i],
		}
	}
	return &Result{Rows: rows, Scores: fitScores(fitted, series.Y), ARIMA: m}, nil
}

// fitScores scores the in-sample fit. A fit that cannot be scored still forecasts, so the
// scores are nil instead.
func fitScores(fitted, actual []float64) *score.Scores {
	scores, err := score.NewScores(fitted, actual)
	if err != nil {
		return nil
	}
	return scores
}
