package linearmodel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool `json:"fit_intercept"`
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}
	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares using QR factorization
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
	cond      float64
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if err := validateTraining(x, y); err != nil {
		return err
	}

	if o.opt.FitIntercept {
		x = withIntercept(x)
	}
	m, n := x.Dims()
	if m < n {
		return fmt.Errorf("%d observations for %d features, %w", m, n, ErrUnderdetermined)
	}

	qr := new(mat.QR)
	qr.Factorize(x)

	var r mat.Dense
	qr.RTo(&r)
	for i := 0; i < n; i++ {
		if d := r.At(i, i); d == 0 || math.IsNaN(d) {
			return fmt.Errorf("zero pivot at feature %d, %w", i, ErrSingularMatrix)
		}
	}
	o.cond = qr.Cond()

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		// an ill conditioned solve still populates beta
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return err
		}
	}

	c := mat.Col(nil, 0, &beta)
	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
		return nil
	}
	o.intercept = 0
	o.coef = c
	return nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	return predict(x, o.intercept, o.coef)
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(o, x, y)
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// Cond returns the condition number of the last fitted design matrix
func (o *OLSRegression) Cond() float64 {
	return o.cond
}
