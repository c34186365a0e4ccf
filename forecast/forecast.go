// Package forecast fits an additive decomposition of a daily series into a piecewise linear
// trend, Fourier seasonality and holiday effects using a lasso regression that only
// penalizes trend changes.
package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/salesforecaster/go-salesforecaster/feature"
	"github.com/salesforecaster/go-salesforecaster/forecast/options"
	"github.com/salesforecaster/go-salesforecaster/linearmodel"
	smat "github.com/salesforecaster/go-salesforecaster/mat"
	"github.com/salesforecaster/go-salesforecaster/score"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrUninitializedForecast    = errors.New("uninitialized forecast")
	ErrInsufficientTrainingData = errors.New("insufficient training data after removing NaNs")
	ErrNoModelCoefficients      = errors.New("no model coefficients from fit")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
)

// Components holds the additive parts of a prediction. Trend includes the intercept.
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
	Event       []float64 `json:"event"`
}

// Forecast represents a single forecast model of a time series. This is a linear model using
// coordinate descent to calculate the weights. This will decompose the series into an intercept,
// trend components (based on changepoint times), seasonal components and holidays.
type Forecast struct {
	opt    *options.Options
	scores *score.Scores // score calculations after training

	// model coefficients
	fLabels *feature.Labels

	trainStartTime time.Time
	trainEndTime   time.Time
	trainPoints    int

	residual        []float64
	trainComponents Components

	coef      []float64
	intercept float64
	trained   bool
}

// New creates a new forecast instance with the given options. If none are provided, a default
// is used
func New(opt *options.Options) (*Forecast, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Forecast{opt: opt}, nil
}

// NewFromModel creates a new forecast instance given a forecast Model to initialize. This
// instance can be used for inference immediately and does not need to be trained again.
func NewFromModel(model Model) (*Forecast, error) {
	opt, err := model.Options.Validate()
	if err != nil {
		return nil, err
	}

	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}

	return &Forecast{
		opt:            opt,
		fLabels:        feature.NewLabels(labels),
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
		trainPoints:    model.TrainPoints,
		intercept:      model.Weights.Intercept,
		coef:           model.Weights.Coefficients(),
		scores:         model.Scores,
		trained:        true,
	}, nil
}

// Fit takes the input training data and fits a forecast model for possible changepoints,
// seasonal components, holidays and intercept. NaN observations are skipped.
func (f *Forecast) Fit(t []time.Time, y []float64) error {
	if f == nil {
		return ErrUninitializedForecast
	}

	trainingData, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return err
	}

	trainingT := make([]time.Time, 0, len(trainingData.T))
	trainingY := make([]float64, 0, len(trainingData.Y))
	for i := 0; i < len(trainingData.T); i++ {
		if math.IsNaN(trainingData.Y[i]) {
			continue
		}
		trainingT = append(trainingT, trainingData.T[i])
		trainingY = append(trainingY, trainingData.Y[i])
	}
	if len(trainingT) <= 1 {
		return ErrInsufficientTrainingData
	}

	f.trainStartTime = trainingT[0]
	f.trainEndTime = trainingT[len(trainingT)-1]
	f.trainPoints = len(trainingT)

	x, err := f.opt.GenerateFeatures(trainingT, f.trainStartTime, f.trainEndTime, f.trainPoints)
	if err != nil {
		return err
	}
	x.RemoveZeroOnlyFeatures()
	f.fLabels = x.Labels()

	// scale the target so the regularization strength does not depend on sales volume
	scale := floats.Norm(trainingY, math.Inf(1))
	if scale == 0 {
		scale = 1
	}
	scaledY := make([]float64, len(trainingY))
	floats.ScaleTo(scaledY, 1/scale, trainingY)

	if err := f.fitWeights(x, scaledY); err != nil {
		return err
	}
	f.intercept *= scale
	floats.Scale(scale, f.coef)
	f.trained = true

	// use input training to include NaNs
	predicted, comp, err := f.Predict(trainingData.T)
	if err != nil {
		return err
	}
	f.trainComponents = comp

	scores, err := score.NewScores(predicted, trainingData.Y)
	if err != nil {
		return err
	}
	f.scores = scores

	residual := make([]float64, len(trainingData.T))
	floats.SubTo(residual, trainingData.Y, predicted)
	f.residual = residual
	return nil
}

// fitWeights runs the lasso over the features. Without any features the model is the
// mean of the observations.
func (f *Forecast) fitWeights(x *feature.Set, y []float64) error {
	if x.Len() == 0 {
		f.intercept = stat.Mean(y, nil)
		f.coef = []float64{}
		return nil
	}

	features := x.Matrix(false)
	observations, err := smat.NewColVector(y)
	if err != nil {
		return err
	}

	model, err := linearmodel.NewLassoRegression(f.opt.NewLassoOptions(f.fLabels, len(y)))
	if err != nil {
		return err
	}
	if err := model.Fit(features, observations); err != nil {
		return fmt.Errorf("unable to fit lasso regression, %w", err)
	}

	f.intercept = model.Intercept()
	f.coef = model.Coef()

	slog.Debug("fit forecast",
		"points", len(y),
		"features", f.fLabels.Len(),
		"iterations", model.Iterations(),
	)
	return nil
}

// Predict takes a slice of times in any order and produces the predicted value for those
// times given a pre-trained model.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, Components{}, ErrUntrainedForecast
	}
	if len(t) == 0 {
		return []float64{}, Components{}, nil
	}

	x, err := f.opt.GenerateFeatures(t, f.trainStartTime, f.trainEndTime, f.trainPoints)
	if err != nil {
		return nil, Components{}, err
	}

	comp := Components{
		Trend:       f.runInference(x, len(t), true, feature.FeatureTypeGrowth, feature.FeatureTypeChangepoint),
		Seasonality: f.runInference(x, len(t), false, feature.FeatureTypeSeasonality),
		Event:       f.runInference(x, len(t), false, feature.FeatureTypeEvent),
	}

	res := make([]float64, len(t))
	floats.Add(res, comp.Trend)
	floats.Add(res, comp.Seasonality)
	floats.Add(res, comp.Event)
	return res, comp, nil
}

// runInference sums the weighted trained features of the given types. Trained features
// absent from x contribute nothing.
func (f *Forecast) runInference(x *feature.Set, n int, withIntercept bool, types ...feature.FeatureType) []float64 {
	res := make([]float64, n)
	if withIntercept {
		for i := range res {
			res[i] = f.intercept
		}
	}

	for i, label := range f.fLabels.Labels() {
		if !slices.Contains(types, label.Type()) || f.coef[i] == 0 {
			continue
		}
		data, exists := x.Get(label)
		if !exists {
			continue
		}
		floats.AddScaled(res, f.coef[i], data)
	}
	return res
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil || f.fLabels == nil {
		return nil
	}
	return f.fLabels.Labels()
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.FeatureLabels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64, len(f.coef))
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Intercept returns the intercept of the forecast model
func (f *Forecast) Intercept() float64 {
	if f == nil {
		return 0
	}
	return f.intercept
}

// TrainStartTime returns the first non NaN training time
func (f *Forecast) TrainStartTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainStartTime
}

// TrainEndTime returns the last non NaN training time
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEndTime
}

// Model returns the serializeable format of the forecast model composing of the
// forecast options, intercept, coefficients with their feature labels, and the
// model fit scores
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	if !f.trained {
		return Model{}, ErrUntrainedForecast
	}

	labels := f.fLabels.Labels()
	fws := make([]FeatureWeight, 0, len(f.coef))
	for i, c := range f.coef {
		fws = append(fws, NewFeatureWeight(labels[i], c))
	}
	return Model{
		TrainStartTime: f.trainStartTime,
		TrainEndTime:   f.trainEndTime,
		TrainPoints:    f.trainPoints,
		Options:        f.opt,
		Scores:         f.scores,
		Weights: Weights{
			Intercept: f.intercept,
			Coef:      fws,
		},
	}, nil
}

// ModelEq returns a string representation of the model linear equation in the format of
// y ~ b + m1x1 + m2x2 + ...
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	coef, err := f.Coefficients()
	if err != nil {
		return "", err
	}

	var eq strings.Builder
	eq.WriteString("y ~ ")
	fmt.Fprintf(&eq, "%.2f", f.Intercept())
	for _, label := range f.fLabels.Labels() {
		w := coef[label.String()]
		if w == 0 {
			continue
		}
		fmt.Fprintf(&eq, "+%.2f*%s", w, label)
	}
	return eq.String(), nil
}

// Scores returns the fit scores for evaluating how well the resulting model
// fit the training data
func (f *Forecast) Scores() score.Scores {
	if f == nil || f.scores == nil {
		return score.Scores{}
	}
	return *f.scores
}

// Residuals returns a slice of values representing the difference between the
// training data and the fit data
func (f *Forecast) Residuals() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// TrendComponent represents the overall trend component of the model which is determined
// by the intercept, growth and changepoints.
func (f *Forecast) TrendComponent() []float64 {
	if f == nil {
		return nil
	}
	return slices.Clone(f.trainComponents.Trend)
}

// SeasonalityComponent represents the overall seasonal component of the model
func (f *Forecast) SeasonalityComponent() []float64 {
	if f == nil {
		return nil
	}
	return slices.Clone(f.trainComponents.Seasonality)
}

// EventComponent represents the overall holiday component of the model
func (f *Forecast) EventComponent() []float64 {
	if f == nil {
		return nil
	}
	return slices.Clone(f.trainComponents.Event)
}

// Tail returns the components of the last n points
func (c Components) Tail(n int) Components {
	tail := func(x []float64) []float64 {
		return x[max(len(x)-n, 0):]
	}
	return Components{
		Trend:       tail(c.Trend),
		Seasonality: tail(c.Seasonality),
		Event:       tail(c.Event),
	}
}
