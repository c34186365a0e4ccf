// Package options contains all forecast options for a linear fit of a univariate time series
package options

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/salesforecaster/go-salesforecaster/feature"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
	"github.com/salesforecaster/go-salesforecaster/linearmodel"
)

const DefaultRegularization = 0.01

var (
	ErrNegativeRegularization = errors.New("negative regularization")
	ErrInvalidTrainWindow     = errors.New("training end time must be after the start time")
	ErrUnknownGrowthType      = errors.New("unknown growth type")
)

// Options configures a forecast by specifying changepoints, seasonality order, holidays
// and a regularization parameter where higher values remove more changepoints that
// contribute the least to the fit.
type Options struct {
	ChangepointOptions ChangepointOptions `json:"changepoint_options"`
	SeasonalityOptions SeasonalityOptions `json:"seasonality_options"`
	HolidayOptions     HolidayOptions     `json:"holiday_options"`

	// GrowthType adds a linear trend over the training window when set to
	// feature.GrowthLinear. Empty leaves only the intercept.
	GrowthType string `json:"growth_type"`

	// Lasso related options. Regularization is scaled by the number of training points.
	Regularization float64 `json:"regularization"`
	Iterations     int     `json:"iterations"`
	Tolerance      float64 `json:"tolerance"`
}

// NewDefaultOptions returns a set of default forecast options
func NewDefaultOptions() *Options {
	return &Options{
		ChangepointOptions: NewDefaultChangepointOptions(),
		SeasonalityOptions: NewDefaultSeasonalityOptions(),
		HolidayOptions:     NewDefaultHolidayOptions(),
		GrowthType:         feature.GrowthLinear,
		Regularization:     DefaultRegularization,
		Iterations:         linearmodel.DefaultIterations,
		Tolerance:          linearmodel.DefaultTolerance,
	}
}

// Validate fills in defaults for a nil options and rejects invalid settings
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.Regularization < 0 {
		return nil, ErrNegativeRegularization
	}
	if o.Iterations < 0 {
		return nil, linearmodel.ErrNegativeIterations
	}
	if o.Tolerance < 0 {
		return nil, linearmodel.ErrNegativeTolerance
	}
	switch o.GrowthType {
	case "", feature.GrowthLinear:
	default:
		return nil, fmt.Errorf("%q, %w", o.GrowthType, ErrUnknownGrowthType)
	}
	return o, nil
}

// NewLassoOptions builds the lasso options for a fit over the given features. Only
// changepoints are penalized so trend changes are the only terms the fit can drop.
func (o *Options) NewLassoOptions(labels *feature.Labels, numTrainPoints int) *linearmodel.LassoOptions {
	lassoOpt := linearmodel.NewDefaultLassoOptions()
	lassoOpt.Lambda = o.Regularization * float64(numTrainPoints)

	lassoOpt.Iterations = o.Iterations
	if o.Iterations == 0 {
		lassoOpt.Iterations = linearmodel.DefaultIterations
	}

	lassoOpt.Tolerance = o.Tolerance
	if o.Tolerance == 0 {
		lassoOpt.Tolerance = linearmodel.DefaultTolerance
	}

	lassoOpt.PenaltyFactor = make([]float64, labels.Len())
	for i, l := range labels.Labels() {
		if l.Type() == feature.FeatureTypeChangepoint {
			lassoOpt.PenaltyFactor[i] = 1.0
		}
	}
	return lassoOpt
}

// NormalizedEpoch maps each time onto the training window where the start is 0 and the end is 1.
// Times after the window extrapolate past 1.
func NormalizedEpoch(t []time.Time, trainStart, trainEnd time.Time) []float64 {
	span := trainEnd.Sub(trainStart).Seconds()
	epoch := make([]float64, len(t))
	if span <= 0 {
		return epoch
	}
	for i, tp := range t {
		epoch[i] = tp.Sub(trainStart).Seconds() / span
	}
	return epoch
}

// GenerateFeatures builds the full feature set evaluated at t for a model trained over
// [trainStart, trainEnd] with numTrainPoints observations. The intercept is left to the
// regression.
func (o *Options) GenerateFeatures(t []time.Time, trainStart, trainEnd time.Time, numTrainPoints int) (*feature.Set, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if !trainEnd.After(trainStart) {
		return nil, fmt.Errorf("start %s, end %s, %w", trainStart, trainEnd, ErrInvalidTrainWindow)
	}

	feat := feature.NewSet()

	epoch := NormalizedEpoch(t, trainStart, trainEnd)
	if o.GrowthType == feature.GrowthLinear {
		feat.Set(feature.Linear(), epoch)
	}

	feat.Update(o.ChangepointOptions.GenerateFeatures(epoch, numTrainPoints, trainStart, trainEnd))
	feat.Update(o.SeasonalityOptions.GenerateFeatures(t, trainEnd.Sub(trainStart)))
	feat.Update(o.HolidayOptions.GenerateFeatures(t))
	return feat, nil
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	growth := o.GrowthType
	if growth == "" {
		growth = "flat"
	}
	if _, err := fmt.Fprintf(w, "%s%sGrowth: %s\n", prefix, util.IndentExpand(indent, indentGrowth), growth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sRegularization: %.4f\n", prefix, util.IndentExpand(indent, indentGrowth), o.Regularization); err != nil {
		return err
	}
	if err := o.ChangepointOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	if err := o.SeasonalityOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	return o.HolidayOptions.TablePrint(w, prefix, indent, indentGrowth)
}
