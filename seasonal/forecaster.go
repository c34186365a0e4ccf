// Package seasonal forecasts a daily series with an additive trend, seasonality and holiday
// model and bounds it with a second model fit on the rolling deviation of the residuals.
package seasonal

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/salesforecaster/go-salesforecaster/forecast"
	"github.com/salesforecaster/go-salesforecaster/stats"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrTooFewPoints         = errors.New("too few observations to fit")
	ErrInvalidPeriods       = errors.New("number of forecast periods must be at least 1")
	ErrInsufficientResidual = errors.New("insufficient samples from residual after outlier removal")
	ErrNoOptionsInModel     = errors.New("no options set in model")
	ErrNotFit               = errors.New("forecaster has no training data")
)

const (
	MinTrainingPoints       = 2
	MinResidualWindow       = 2
	MinResidualSize         = 2
	MinResidualWindowFactor = 4
)

// Forecaster fits a forecast model and can be used to generate forecasts
type Forecaster struct {
	opt *Options

	seriesForecast   *forecast.Forecast
	residualForecast *forecast.Forecast

	fitTrainingData *timedataset.TimeDataset
	fitResults      *Results
	residual        []float64
}

// New creates a new instance of a Forecaster using the provided options. If no options are provided
// a default is used.
func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	f := &Forecaster{
		opt: opt,
	}

	seriesForecast, err := forecast.New(f.opt.SeriesOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize forecast series, %w", err)
	}
	f.seriesForecast = seriesForecast

	residualForecast, err := forecast.New(f.opt.ResidualOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize forecast residual, %w", err)
	}
	f.residualForecast = residualForecast
	return f, nil
}

// NewFromModel creates a new instance of Forecaster from a pre-existing model. This should be generated
// from a previous forecaster call to Model(). The result can predict any times but has no
// history to extend with Forecast.
func NewFromModel(model Model) (*Forecaster, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	opt := *model.Options
	opt.SeriesOptions = model.Series.Options
	opt.ResidualOptions = model.Uncertainty.Options

	validOpt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	seriesForecast, err := forecast.NewFromModel(model.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to load from series model, %w", err)
	}
	residualForecast, err := forecast.NewFromModel(model.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("unable to load from residual model, %w", err)
	}
	return &Forecaster{
		opt:              validOpt,
		seriesForecast:   seriesForecast,
		residualForecast: residualForecast,
	}, nil
}

// Fit uses the input time dataset and fits the forecast model. NaN observations are
// skipped and at least MinTrainingPoints observations are required.
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}

	var numPoints int
	for _, v := range td.Y {
		if !math.IsNaN(v) {
			numPoints++
		}
	}
	if numPoints < MinTrainingPoints {
		return fmt.Errorf("got %d observations, need %d, %w", numPoints, MinTrainingPoints, ErrTooFewPoints)
	}
	f.fitTrainingData = td.Copy()

	residual, err := f.fitSeriesWithOutliers(td.T, slices.Clone(td.Y))
	if err != nil {
		return err
	}
	f.residual = residual

	if err := f.fitResidual(td.T, residual); err != nil {
		return err
	}

	f.fitResults, err = f.Predict(td.T)
	if err != nil {
		return fmt.Errorf("unable to get predicted values from training set, %w", err)
	}
	return nil
}

// fitSeriesWithOutliers fits the series, masking residual outliers and refitting for each
// outlier pass. Masked observations have a NaN residual.
func (f *Forecaster) fitSeriesWithOutliers(t []time.Time, y []float64) ([]float64, error) {
	numPasses := 0
	if f.opt.OutlierOptions != nil {
		numPasses = f.opt.OutlierOptions.NumPasses
	}

	var residual []float64
	for i := 0; i <= numPasses; i++ {
		if err := f.seriesForecast.Fit(t, y); err != nil {
			return nil, fmt.Errorf("unable to forecast series, %w", err)
		}
		residual = f.seriesForecast.Residuals()

		if i == numPasses {
			break
		}

		idx, vals := finite(residual)
		outlierIdxs := stats.DetectOutliers(
			vals,
			f.opt.OutlierOptions.LowerPercentile,
			f.opt.OutlierOptions.UpperPercentile,
			f.opt.OutlierOptions.TukeyFactor,
		)

		// no more outliers detected with outlier options so break early
		if len(outlierIdxs) == 0 || len(vals)-len(outlierIdxs) < MinTrainingPoints {
			break
		}
		for _, oIdx := range outlierIdxs {
			y[idx[oIdx]] = math.NaN()
		}
		f.opt.Logger.Debug("masked residual outliers", "pass", i+1, "outliers", len(outlierIdxs))
	}
	return residual, nil
}

// fitResidual fits the uncertainty model on the scaled rolling standard deviation of the
// residual. The window is not necessarily a block of continuous time but could jump across
// outlier points.
func (f *Forecaster) fitResidual(t []time.Time, residual []float64) error {
	idx, vals := finite(residual)
	if len(vals) < MinResidualSize {
		return ErrInsufficientResidual
	}

	window := min(f.opt.residualWindow(len(vals)), len(vals))
	stddev, err := stats.RollingStd(vals, window)
	if err != nil {
		return fmt.Errorf("unable to compute residual deviation, %w", err)
	}
	floats.Scale(f.opt.ZScore(), stddev)

	residualT := make([]time.Time, len(idx))
	for i, j := range idx {
		residualT[i] = t[j]
	}
	if err := f.residualForecast.Fit(residualT, stddev); err != nil {
		return fmt.Errorf("unable to forecast residual, %w", err)
	}
	return nil
}

// finite returns the positions and values of the non NaN entries of x
func finite(x []float64) ([]int, []float64) {
	idx := make([]int, 0, len(x))
	vals := make([]float64, 0, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		idx = append(idx, i)
		vals = append(vals, v)
	}
	return idx, vals
}

// Predict takes in any set of time samples and generates a forecast, upper, lower values per time point
func (f *Forecaster) Predict(t []time.Time) (*Results, error) {
	seriesRes, seriesComp, err := f.seriesForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series forecasts, %w", err)
	}
	residualRes, residualComp, err := f.residualForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict residual forecasts, %w", err)
	}

	// cap residual predictions to be greater than or equal to 0
	for i := 0; i < len(residualRes); i++ {
		if residualRes[i] < 0.0 || math.IsNaN(residualRes[i]) {
			residualRes[i] = 0.0
		}
	}

	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))
	floats.AddTo(upper, seriesRes, residualRes)
	floats.SubTo(lower, seriesRes, residualRes)

	return &Results{
		T:                  t,
		Forecast:           seriesRes,
		Upper:              upper,
		Lower:              lower,
		SeriesComponents:   seriesComp,
		ResidualComponents: residualComp,
	}, nil
}

// MakeFutureDataframe returns the training times followed by periods future days, or
// future times at the inferred frequency of the training data when InferFreq is set
func (f *Forecaster) MakeFutureDataframe(periods int) ([]time.Time, error) {
	if f.fitTrainingData == nil {
		return nil, ErrNotFit
	}
	if periods < 1 {
		return nil, fmt.Errorf("got %d, %w", periods, ErrInvalidPeriods)
	}
	if f.opt.InferFreq {
		return f.fitTrainingData.MakeFutureTimesAt(periods, f.fitTrainingData.Freq())
	}
	return f.fitTrainingData.MakeFutureTimes(periods)
}

// Forecast predicts the whole future dataframe and returns the last periods rows
func (f *Forecaster) Forecast(periods int) (*Results, error) {
	timeline, err := f.MakeFutureDataframe(periods)
	if err != nil {
		return nil, err
	}
	res, err := f.Predict(timeline)
	if err != nil {
		return nil, err
	}
	return res.Tail(periods), nil
}

// Residuals returns the difference between the final series fit against the training data.
// Outliers masked from the fit are NaN.
func (f *Forecaster) Residuals() []float64 {
	return slices.Clone(f.residual)
}

// TrendComponent returns the trend component created by changepoints after fitting
func (f *Forecaster) TrendComponent() []float64 {
	return f.seriesForecast.TrendComponent()
}

// SeasonalityComponent returns the seasonality component after fitting the fourier series
func (f *Forecaster) SeasonalityComponent() []float64 {
	return f.seriesForecast.SeasonalityComponent()
}

// EventComponent returns the holiday component after fitting
func (f *Forecaster) EventComponent() []float64 {
	return f.seriesForecast.EventComponent()
}

// SeriesIntercept returns the intercept of the series fit
func (f *Forecaster) SeriesIntercept() float64 {
	return f.seriesForecast.Intercept()
}

// SeriesCoefficients returns all coefficient weight associated with the component label string
func (f *Forecaster) SeriesCoefficients() (map[string]float64, error) {
	return f.seriesForecast.Coefficients()
}

// ResidualIntercept returns the intercept of the uncertainty fit
func (f *Forecaster) ResidualIntercept() float64 {
	return f.residualForecast.Intercept()
}

// ResidualCoefficients returns all uncertainty coefficient weights associated with the component label string
func (f *Forecaster) ResidualCoefficients() (map[string]float64, error) {
	return f.residualForecast.Coefficients()
}

// Model generates a serializeable representation of the fit options, series model, and uncertainty model. This
// can be used to initialize a new Forecaster for immediate predictions skipping the training step.
func (f *Forecaster) Model() (Model, error) {
	seriesModel, err := f.seriesForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch series model, %w", err)
	}
	residualModel, err := f.residualForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch residual model, %w", err)
	}
	return Model{
		Options:     f.opt,
		Series:      seriesModel,
		Uncertainty: residualModel,
	}, nil
}

// SeriesModelEq returns a string representation of the fit series model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) SeriesModelEq() (string, error) {
	return f.seriesForecast.ModelEq()
}

// TrainingData returns the training data used to fit the current forecaster model
func (f *Forecaster) TrainingData() *timedataset.TimeDataset {
	return f.fitTrainingData
}

// FitResults returns the results of the fit which includes the forecast, upper, and lower values
func (f *Forecaster) FitResults() *Results {
	return f.fitResults
}
