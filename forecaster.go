// Package salesforecaster aggregates daily revenue from tabular sales records and forecasts
// it with either a seasonal decomposition or an ARIMA model.
package salesforecaster

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/salesforecaster/go-salesforecaster/arima"
	"github.com/salesforecaster/go-salesforecaster/dataset"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
)

// SalesForecaster holds a private copy of the sales records and produces forecast tables
// from them. A failed forecast is logged and returned as a nil Result.
type SalesForecaster struct {
	frame *dataset.Frame
	opt   *Options

	logger  *slog.Logger
	metrics *metrics
	now     func() time.Time

	// strategies overrides the strategy of a method
	strategies map[Method]strategy
}

// New copies the frame and validates it by aggregating the daily series once. Schema and
// parse errors are returned here.
func New(frame *dataset.Frame, opt *Options) (*SalesForecaster, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame, %w", timedataset.ErrNoTrainingData)
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(opt.Registerer)
	if err != nil {
		return nil, fmt.Errorf("unable to register metrics, %w", err)
	}

	s := &SalesForecaster{
		frame:   frame.Copy(),
		opt:     opt,
		logger:  opt.Logger.With("component", "salesforecaster"),
		metrics: m,
		now:     time.Now,
	}
	if _, err := s.PrepareTimeSeries(); err != nil {
		return nil, err
	}
	return s, nil
}

// PrepareTimeSeries sums the values of each calendar date into a daily series sorted by
// date
func (s *SalesForecaster) PrepareTimeSeries() (*timedataset.TimeDataset, error) {
	return timedataset.Aggregate(s.frame, s.opt.DateColumn, s.opt.ValueColumn, s.opt.DateLayouts...)
}

// ForecastSeasonal forecasts periods days with the seasonal decomposition. The result is
// not stamped and is nil if the model failed.
func (s *SalesForecaster) ForecastSeasonal(periods int) *Result {
	return s.forecast(MethodSeasonal, s.strategy(MethodSeasonal), periods)
}

// ForecastARIMA forecasts periods days with an ARIMA model of the given order. The result
// is not stamped and is nil if the model failed.
func (s *SalesForecaster) ForecastARIMA(periods int, order arima.Order) *Result {
	strat, ok := s.strategies[MethodAutoregressive]
	if !ok {
		opt := *s.opt.ARIMAOptions
		opt.Order = order
		strat = &arimaStrategy{opt: &opt, inferFreq: s.opt.InferFreq}
	}
	return s.forecast(MethodAutoregressive, strat, periods)
}

// GenerateForecast dispatches to the strategy of method and stamps the result with the
// upper-cased method name, the generation time and a new ID. Nil is returned when no
// forecast was produced.
func (s *SalesForecaster) GenerateForecast(periods int, method Method) *Result {
	var res *Result
	switch method {
	case MethodSeasonal:
		res = s.ForecastSeasonal(periods)
	case MethodAutoregressive:
		res = s.ForecastARIMA(periods, s.opt.ARIMAOptions.Order)
	default:
		s.report(method, fmt.Errorf("method %d, %w", int(method), ErrUnknownMethod))
		return nil
	}
	if res == nil {
		return nil
	}
	res.stamp(method, s.now())
	return res
}

// Evaluate compares predicted against actual values
func (s *SalesForecaster) Evaluate(actual, predicted []float64) (*Evaluation, error) {
	return Evaluate(actual, predicted)
}

func (s *SalesForecaster) strategy(method Method) strategy {
	if strat, ok := s.strategies[method]; ok {
		return strat
	}
	switch method {
	case MethodAutoregressive:
		return &arimaStrategy{opt: s.opt.ARIMAOptions, inferFreq: s.opt.InferFreq}
	default:
		return &seasonalStrategy{opt: s.opt.SeasonalOptions}
	}
}

// forecast runs the strategy on a fresh daily series. Errors and panics are logged,
// counted and turned into a nil result.
func (s *SalesForecaster) forecast(method Method, strat strategy, periods int) (res *Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := &ModelFitError{Method: method, Cause: panicError(r)}
			s.metrics.observe(method, time.Since(start), err)
			s.report(method, err)
			res = nil
		}
	}()

	series, err := s.PrepareTimeSeries()
	if err != nil {
		s.metrics.observe(method, time.Since(start), err)
		s.report(method, err)
		return nil
	}

	res, err = strat.FitAndForecast(series, periods)
	if err == nil && res == nil {
		err = ErrNoForecast
	}
	s.metrics.observe(method, time.Since(start), err)
	if err != nil {
		s.report(method, &ModelFitError{Method: method, Cause: err})
		return nil
	}
	return res
}

func (s *SalesForecaster) report(method Method, err error) {
	s.logger.Warn("unable to generate forecast", "method", method.String(), "error", err)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered panic, %w", err)
	}
	return fmt.Errorf("recovered panic, %v", r)
}
