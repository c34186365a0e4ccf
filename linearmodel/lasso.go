package linearmodel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultLambda     = 1.0
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

var (
	ErrNegativeLambda        = errors.New("negative lambda")
	ErrNegativeIterations    = errors.New("negative iterations")
	ErrNegativeTolerance     = errors.New("negative tolerance")
	ErrWarmStartBetaSize     = errors.New("warm start beta does not have the same number of coefficients as training features")
	ErrPenaltyFactorSize     = errors.New("penalty factors do not have the same number of values as training features")
	ErrNegativePenaltyFactor = errors.New("negative penalty factor")
)

// LassoOptions represents input options to run the Lasso Regression
type LassoOptions struct {
	// WarmStartBeta is used to prime the coordinate descent to reduce the training time if a previous
	// fit has been performed. Does not include the intercept.
	WarmStartBeta []float64 `json:"warm_start_beta,omitempty"`

	// Lambda represents the L1 multiplier, controlling the regularization. Must be a non-negative. 0.0 results in converging
	// to Ordinary Least Squares (OLS).
	Lambda float64 `json:"lambda"`

	// PenaltyFactor scales lambda per feature. A factor of 0 leaves the feature unpenalized. Nil
	// penalizes every feature equally. The intercept is never penalized.
	PenaltyFactor []float64 `json:"penalty_factor,omitempty"`

	// Iterations is the maximum number of times the fit loops through training all coefficients.
	Iterations int `json:"iterations"`

	// Tolerance is the smallest coefficient change on each iteration to determine when to stop iterating.
	Tolerance float64 `json:"tolerance"`

	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool `json:"fit_intercept"`
}

// Validate runs basic validation on Lasso options
func (l *LassoOptions) Validate() (*LassoOptions, error) {
	if l == nil {
		l = NewDefaultLassoOptions()
	}

	if l.Lambda < 0 {
		return nil, ErrNegativeLambda
	}
	if l.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if l.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	for _, p := range l.PenaltyFactor {
		if p < 0 {
			return nil, ErrNegativePenaltyFactor
		}
	}
	return l, nil
}

// NewDefaultLassoOptions returns a default set of Lasso Regression options
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:       DefaultLambda,
		Iterations:   DefaultIterations,
		Tolerance:    DefaultTolerance,
		FitIntercept: true,
	}
}

// LassoRegression computes the lasso regression using coordinate descent. lambda = 0 converges to OLS
type LassoRegression struct {
	opt *LassoOptions

	coef      []float64
	intercept float64
	iters     int
}

// NewLassoRegression initializes a Lasso model ready for fitting
func NewLassoRegression(opt *LassoOptions) (*LassoRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LassoRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data minimizing
// 1/2 ||y - Xb||^2 + lambda * sum(penalty_j * |b_j|)
func (l *LassoRegression) Fit(x, y mat.Matrix) error {
	if l.opt == nil {
		return ErrNoOptions
	}
	if err := validateTraining(x, y); err != nil {
		return err
	}

	m, nFeat := x.Dims()
	if l.opt.WarmStartBeta != nil && len(l.opt.WarmStartBeta) != nFeat {
		return fmt.Errorf("warm start beta has %d features instead of %d, %w", len(l.opt.WarmStartBeta), nFeat, ErrWarmStartBetaSize)
	}
	if l.opt.PenaltyFactor != nil && len(l.opt.PenaltyFactor) != nFeat {
		return fmt.Errorf("got %d penalty factors for %d features, %w", len(l.opt.PenaltyFactor), nFeat, ErrPenaltyFactorSize)
	}

	// column 0 holds the intercept when fitting one
	offset := 0
	if l.opt.FitIntercept {
		x = withIntercept(x)
		offset = 1
	}
	_, n := x.Dims()

	beta := make([]float64, n)
	if l.opt.WarmStartBeta != nil {
		copy(beta[offset:], l.opt.WarmStartBeta)
	}

	penalty := make([]float64, n)
	for j := offset; j < n; j++ {
		penalty[j] = l.opt.Lambda
		if l.opt.PenaltyFactor != nil {
			penalty[j] *= l.opt.PenaltyFactor[j-offset]
		}
	}

	xcols := make([][]float64, n)
	xdot := make([]float64, n)
	for j := 0; j < n; j++ {
		xcols[j] = mat.Col(nil, j, x)
		xdot[j] = floats.Dot(xcols[j], xcols[j])
	}

	yArr := mat.Col(nil, 0, y)
	residual := make([]float64, m)
	copy(residual, yArr)
	for j := 0; j < n; j++ {
		if beta[j] != 0 {
			floats.AddScaled(residual, -beta[j], xcols[j])
		}
	}

	var iter int
	for iter = 0; iter < l.opt.Iterations; iter++ {
		maxCoef := 0.0
		maxUpdate := 0.0

		for j := 0; j < n; j++ {
			if xdot[j] == 0 {
				beta[j] = 0
				continue
			}
			betaCurr := beta[j]
			rho := floats.Dot(xcols[j], residual) + xdot[j]*betaCurr
			betaNext := SoftThreshold(rho, penalty[j]) / xdot[j]

			if delta := betaNext - betaCurr; delta != 0 {
				floats.AddScaled(residual, -delta, xcols[j])
				maxUpdate = math.Max(maxUpdate, math.Abs(delta))
			}
			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			beta[j] = betaNext
		}

		if maxUpdate <= l.opt.Tolerance*math.Max(maxCoef, 1e-12) {
			break
		}
	}
	l.iters = iter

	if l.opt.FitIntercept {
		l.intercept = beta[0]
		l.coef = beta[1:]
		return nil
	}
	l.intercept = 0
	l.coef = beta
	return nil
}

// Predict using the Lasso model
func (l *LassoRegression) Predict(x mat.Matrix) ([]float64, error) {
	if l.opt == nil {
		return nil, ErrNoOptions
	}
	return predict(x, l.intercept, l.coef)
}

// Score computes the coefficient of determination of the prediction
func (l *LassoRegression) Score(x, y mat.Matrix) (float64, error) {
	if l.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(l, x, y)
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (l *LassoRegression) Intercept() float64 {
	return l.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (l *LassoRegression) Coef() []float64 {
	c := make([]float64, len(l.coef))
	copy(c, l.coef)
	return c
}

// Iterations returns the number of coordinate descent sweeps of the last fit
func (l *LassoRegression) Iterations() int {
	return l.iters
}

// SoftThreshold returns 0.0 if the value is less than or equal to the gamma input
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(0, math.Abs(x)-gamma)
	if math.Signbit(x) {
		return -res
	}
	return res
}
