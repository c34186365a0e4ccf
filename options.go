package salesforecaster

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/salesforecaster/go-salesforecaster/arima"
	"github.com/salesforecaster/go-salesforecaster/seasonal"
)

const (
	DefaultDateColumn  = "Date"
	DefaultValueColumn = "Revenue"
)

// Options configures how the input frame is read and how each strategy is fit
type Options struct {
	DateColumn  string `json:"date_column"`
	ValueColumn string `json:"value_column"`

	// DateLayouts are tried before the default date layouts when parsing string dates
	DateLayouts []string `json:"date_layouts,omitempty"`

	// InferFreq continues forecast dates at the most common spacing of the daily series
	// instead of one calendar day. Both strategies honor it.
	InferFreq bool `json:"infer_freq"`

	SeasonalOptions *seasonal.Options `json:"seasonal_options"`
	ARIMAOptions    *arima.Options    `json:"arima_options"`

	// Logger receives forecast failures. Nil discards them.
	Logger *slog.Logger `json:"-"`

	// Registerer holds the forecast metrics. Nil registers them on a private registry.
	Registerer prometheus.Registerer `json:"-"`
}

func NewDefaultOptions() *Options {
	return &Options{
		DateColumn:      DefaultDateColumn,
		ValueColumn:     DefaultValueColumn,
		SeasonalOptions: seasonal.NewDefaultOptions(),
		ARIMAOptions:    arima.NewDefaultOptions(),
		Logger:          slog.New(slog.DiscardHandler),
		Registerer:      prometheus.NewRegistry(),
	}
}

// Validate returns a copy of the options with every unset field defaulted
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	next := *o
	if next.DateColumn == "" {
		next.DateColumn = DefaultDateColumn
	}
	if next.ValueColumn == "" {
		next.ValueColumn = DefaultValueColumn
	}
	if next.Logger == nil {
		next.Logger = slog.New(slog.DiscardHandler)
	}
	if next.Registerer == nil {
		next.Registerer = prometheus.NewRegistry()
	}

	seasonalOpt, err := next.SeasonalOptions.Validate()
	if err != nil {
		return nil, err
	}
	if o.SeasonalOptions == nil || o.SeasonalOptions.Logger == nil {
		seasonalOpt.Logger = next.Logger.With("component", "seasonal")
	}
	if next.InferFreq {
		seasonalOpt.InferFreq = true
	}
	next.SeasonalOptions = seasonalOpt

	arimaOpt, err := next.ARIMAOptions.Validate()
	if err != nil {
		return nil, err
	}
	next.ARIMAOptions = arimaOpt
	return &next, nil
}
