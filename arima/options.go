package arima

import (
	"errors"
	"fmt"
	"io"

	"github.com/salesforecaster/go-salesforecaster/forecast/util"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultAlpha = 0.05

	// MaxConditionNumber is the largest design condition number accepted by a regression
	// step before the fit is declared singular
	MaxConditionNumber = 1e12

	DefaultLjungBoxLags = 10
)

var (
	ErrInvalidOrder = errors.New("orders must be non-negative")
	ErrInvalidAlpha = errors.New("alpha must be between 0 and 1")
)

// Order is the (p, d, q) specification of an ARIMA model: p autoregressive lags, d
// differences and q moving average lags.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// DefaultOrder is used when no order is configured
var DefaultOrder = Order{P: 5, D: 1, Q: 2}

func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("got %s, %w", o, ErrInvalidOrder)
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// MinObservations is the shortest series that can be fit with this order. The long
// autoregression, the lagged innovation burn in and the final regression each consume
// observations, with a few left over for the residual variance.
func (o Order) MinObservations() int {
	m := o.P + o.Q
	return o.D + m + max(o.P, o.Q) + o.P + o.Q + 6
}

// Options configures the ARIMA order and the confidence of its forecast intervals
type Options struct {
	Order Order `json:"order"`

	// Alpha is the significance level of the intervals. 0.05 produces a 95% interval.
	Alpha float64 `json:"alpha"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Order: DefaultOrder,
		Alpha: DefaultAlpha,
	}
}

// Validate returns a copy of the options with defaults filled in
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	out := *o
	if out.Alpha == 0 {
		out.Alpha = DefaultAlpha
	}
	if err := out.Order.Validate(); err != nil {
		return nil, err
	}
	if err := validateAlpha(out.Alpha); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	_, err := fmt.Fprintf(w, "%s%sOrder: %s    Alpha: %.3f\n",
		prefix, util.IndentExpand(indent, indentGrowth), o.Order, o.Alpha)
	return err
}

func validateAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return fmt.Errorf("got %.4f, %w", alpha, ErrInvalidAlpha)
	}
	return nil
}

// zCritical is the two sided standard normal quantile for alpha
func zCritical(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}
