package seasonal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/salesforecaster/go-salesforecaster/forecast/options"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultResidualWindow = 14
	DefaultIntervalWidth  = 0.8
)

var (
	ErrInvalidIntervalWidth = errors.New("interval width must be between 0 and 1")
	ErrNegativeWindow       = errors.New("negative residual window")
)

// OutlierOptions configures the passes that mask residual outliers and refit the series.
// Outliers lie beyond the Tukey fences built from the residual percentiles.
type OutlierOptions struct {
	NumPasses       int     `json:"num_passes"`
	UpperPercentile float64 `json:"upper_percentile"`
	LowerPercentile float64 `json:"lower_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

func NewDefaultOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

// Options configures the series model, the uncertainty model fit on the rolling residual
// deviation and the optional outlier passes. A nil OutlierOptions disables outlier removal.
type Options struct {
	SeriesOptions   *options.Options `json:"series_options"`
	ResidualOptions *options.Options `json:"residual_options"`
	OutlierOptions  *OutlierOptions  `json:"outlier_options"`

	// ResidualWindow is the number of residuals in each rolling standard deviation. It is
	// clamped to a quarter of the training points and at least 2.
	ResidualWindow int `json:"residual_window"`

	// IntervalWidth is the probability mass covered by the lower and upper bounds
	IntervalWidth float64 `json:"interval_width"`

	// InferFreq continues forecasts at the most common spacing of the training data
	// instead of one calendar day
	InferFreq bool `json:"infer_freq"`

	Logger *slog.Logger `json:"-"`
}

// NewDefaultOptions returns the series defaults with an intercept plus weekly uncertainty
// model, an 80% interval and no outlier removal
func NewDefaultOptions() *Options {
	return &Options{
		SeriesOptions:   options.NewDefaultOptions(),
		ResidualOptions: NewDefaultResidualOptions(),
		ResidualWindow:  DefaultResidualWindow,
		IntervalWidth:   DefaultIntervalWidth,
		Logger:          slog.New(slog.DiscardHandler),
	}
}

// NewDefaultResidualOptions models the uncertainty band with an intercept and weekly
// seasonality only
func NewDefaultResidualOptions() *options.Options {
	return &options.Options{
		SeasonalityOptions: options.SeasonalityOptions{
			SeasonalityConfigs: []options.SeasonalityConfig{
				options.NewWeeklySeasonalityConfig(options.DefaultWeeklyOrders),
			},
		},
	}
}

// Validate fills in defaults for nil options and rejects invalid settings
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	next := *o
	if next.SeriesOptions == nil {
		next.SeriesOptions = options.NewDefaultOptions()
	}
	if next.ResidualOptions == nil {
		next.ResidualOptions = NewDefaultResidualOptions()
	}
	if next.ResidualWindow < 0 {
		return nil, ErrNegativeWindow
	}
	if next.ResidualWindow == 0 {
		next.ResidualWindow = DefaultResidualWindow
	}
	if next.IntervalWidth == 0 {
		next.IntervalWidth = DefaultIntervalWidth
	}
	if next.Logger == nil {
		next.Logger = slog.New(slog.DiscardHandler)
	}
	if next.IntervalWidth <= 0 || next.IntervalWidth >= 1 {
		return nil, fmt.Errorf("got %f, %w", next.IntervalWidth, ErrInvalidIntervalWidth)
	}
	return &next, nil
}

// ZScore is the standard normal quantile bounding IntervalWidth of the mass around the mean
func (o *Options) ZScore() float64 {
	return distuv.UnitNormal.Quantile(0.5 + o.IntervalWidth/2)
}

// residualWindow clamps the window to [MinResidualWindow, n/MinResidualWindowFactor]
func (o *Options) residualWindow(n int) int {
	w := o.ResidualWindow
	if n/MinResidualWindowFactor < w {
		w = n / MinResidualWindowFactor
	}
	return max(w, MinResidualWindow)
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sInterval Width: %.2f (z=%.4f)\n",
		prefix, util.IndentExpand(indent, indentGrowth), o.IntervalWidth, o.ZScore()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sResidual Window: %d\n", prefix, util.IndentExpand(indent, indentGrowth), o.ResidualWindow); err != nil {
		return err
	}
	spacing := "daily"
	if o.InferFreq {
		spacing = "inferred"
	}
	if _, err := fmt.Fprintf(w, "%s%sFuture Spacing: %s\n", prefix, util.IndentExpand(indent, indentGrowth), spacing); err != nil {
		return err
	}
	if o.OutlierOptions == nil {
		_, err := fmt.Fprintf(w, "%s%sOutliers: None\n", prefix, util.IndentExpand(indent, indentGrowth))
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sOutliers: %d passes, percentiles [%.2f, %.2f], tukey %.2f\n",
		prefix, util.IndentExpand(indent, indentGrowth),
		o.OutlierOptions.NumPasses,
		o.OutlierOptions.LowerPercentile,
		o.OutlierOptions.UpperPercentile,
		o.OutlierOptions.TukeyFactor,
	)
	return err
}
