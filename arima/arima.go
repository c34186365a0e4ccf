// Package arima fits ARIMA(p,d,q) models with the Hannan-Rissanen regression method and
// produces per step forecasts with psi weight confidence intervals.
package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/salesforecaster/go-salesforecaster/linearmodel"
	smat "github.com/salesforecaster/go-salesforecaster/mat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("insufficient data for order")
	ErrSingularDesign   = errors.New("singular design matrix")
	ErrNonConvergence   = errors.New("estimation did not converge")
	ErrInvalidSteps     = errors.New("steps must be at least 1")
	ErrNonFiniteData    = errors.New("series contains a non-finite value")
	ErrNotFit           = errors.New("model has not been fit")
)

// Model is an ARIMA model. The zero value is not usable, use New.
type Model struct {
	order Order

	phi       []float64
	theta     []float64
	intercept float64
	sigma2    float64
	sse       float64

	// diffs[k] holds the series differenced k times, diffs[0] is the input series
	diffs     [][]float64
	residuals []float64
	fitted    bool
}

// New creates an unfitted model with the given order
func New(order Order) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &Model{order: order}, nil
}

// Fit estimates the model on y. The series is differenced d times, innovations are
// estimated from a long autoregression when q > 0 and the final coefficients come from
// regressing on p lags and q lagged innovations. An intercept is only fit when d = 0.
func (m *Model) Fit(y []float64) error {
	m.fitted = false
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("at index %d, %w", i, ErrNonFiniteData)
		}
	}

	p, d, q := m.order.P, m.order.D, m.order.Q
	if minObs := m.order.MinObservations(); len(y) < minObs {
		return fmt.Errorf("%s needs %d observations but got %d, %w", m.order, minObs, len(y), ErrInsufficientData)
	}

	diffs := difference(y, d)
	w := diffs[d]
	withIntercept := d == 0

	innov := make([]float64, len(w))
	start := p
	if q > 0 {
		long := p + q
		x, target := lagDesign(w, nil, long, 0, long)
		coef, c, err := regress(x, target, withIntercept)
		if err != nil {
			return fmt.Errorf("long autoregression, %w", err)
		}
		for t := long; t < len(w); t++ {
			innov[t] = w[t] - c - lagDot(coef, w, t)
		}
		start = long + max(p, q)
	}

	x, target := lagDesign(w, innov, p, q, start)
	coef, c, err := regress(x, target, withIntercept)
	if err != nil {
		return fmt.Errorf("lag regression, %w", err)
	}

	m.phi = coef[:p]
	m.theta = coef[p:]
	m.intercept = c
	m.diffs = diffs
	m.residuals = m.css(w)

	m.sse = 0
	for _, e := range m.residuals[p:] {
		m.sse += e * e
	}
	m.sigma2 = m.sse / float64(len(w)-p-m.numCoef())

	if !finite(coef) || !finite([]float64{c}) {
		return fmt.Errorf("non-finite coefficient, %w", ErrNonConvergence)
	}
	if math.IsNaN(m.sigma2) || math.IsInf(m.sigma2, 0) || m.sigma2 <= 0 {
		return fmt.Errorf("residual variance %g, %w", m.sigma2, ErrNonConvergence)
	}

	m.fitted = true
	return nil
}

// css recomputes the conditional sum of squares residuals, treating the first p residuals
// and any pre-sample innovations as zero
func (m *Model) css(w []float64) []float64 {
	e := make([]float64, len(w))
	for t := m.order.P; t < len(w); t++ {
		v := w[t] - m.intercept - lagDot(m.phi, w, t)
		for j, th := range m.theta {
			if t-1-j >= 0 {
				v -= th * e[t-1-j]
			}
		}
		e[t] = v
	}
	return e
}

func (m *Model) numCoef() int {
	k := m.order.P + m.order.Q
	if m.order.D == 0 {
		k++
	}
	return k
}

// Forecast returns the point forecasts on the original scale and their standard errors
// for the next steps observations. Future innovations are zero.
func (m *Model) Forecast(steps int) ([]float64, []float64, error) {
	if !m.fitted {
		return nil, nil, ErrNotFit
	}
	if steps < 1 {
		return nil, nil, fmt.Errorf("got %d steps, %w", steps, ErrInvalidSteps)
	}

	w := m.diffs[m.order.D]
	n := len(w)
	ext := make([]float64, n+steps)
	copy(ext, w)
	e := make([]float64, n+steps)
	copy(e, m.residuals)
	for t := n; t < n+steps; t++ {
		v := m.intercept + lagDot(m.phi, ext, t)
		for j, th := range m.theta {
			v += th * e[t-1-j]
		}
		ext[t] = v
	}
	mean := integrate(ext[n:], m.diffs)

	psi := m.psiWeights(steps)
	se := make([]float64, steps)
	acc := 0.0
	for h := range steps {
		acc += psi[h] * psi[h]
		se[h] = math.Sqrt(m.sigma2 * acc)
	}
	return mean, se, nil
}

// ConfInt returns the lower and upper bounds of the forecast interval at the alpha
// significance level
func (m *Model) ConfInt(steps int, alpha float64) ([]float64, []float64, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, nil, err
	}
	mean, se, err := m.Forecast(steps)
	if err != nil {
		return nil, nil, err
	}
	z := zCritical(alpha)
	lower := make([]float64, steps)
	upper := make([]float64, steps)
	for i := range mean {
		lower[i] = mean[i] - z*se[i]
		upper[i] = mean[i] + z*se[i]
	}
	return lower, upper, nil
}

// psiWeights expands theta(B) / (phi(B)(1-B)^d) into its moving average weights
func (m *Model) psiWeights(steps int) []float64 {
	poly := make([]float64, 1, 1+len(m.phi))
	poly[0] = 1
	for _, phi := range m.phi {
		poly = append(poly, -phi)
	}
	for range m.order.D {
		poly = polyMul(poly, []float64{1, -1})
	}
	ar := make([]float64, len(poly)-1)
	for i := range ar {
		ar[i] = -poly[i+1]
	}

	psi := make([]float64, steps)
	psi[0] = 1
	for j := 1; j < steps; j++ {
		v := 0.0
		if j <= len(m.theta) {
			v = m.theta[j-1]
		}
		for i := 1; i <= min(j, len(ar)); i++ {
			v += ar[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// FittedValues returns the one step ahead in-sample predictions on the original scale.
// The first d values and the burn in residuals equal the observations.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	y := m.diffs[0]
	d := m.order.D
	out := make([]float64, len(y))
	copy(out, y)
	for i := d; i < len(y); i++ {
		out[i] = y[i] - m.residuals[i-d]
	}
	return out
}

// Residuals returns a copy of the innovations on the differenced scale
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	res := make([]float64, len(m.residuals))
	copy(res, m.residuals)
	return res
}

func (m *Model) Order() Order {
	return m.order
}

// AR returns a copy of the autoregressive coefficients
func (m *Model) AR() []float64 {
	return append([]float64(nil), m.phi...)
}

// MA returns a copy of the moving average coefficients
func (m *Model) MA() []float64 {
	return append([]float64(nil), m.theta...)
}

func (m *Model) Intercept() float64 {
	return m.intercept
}

// Sigma2 is the residual variance, SSE/(n-k)
func (m *Model) Sigma2() float64 {
	return m.sigma2
}

// difference returns the series differenced 0 through d times
func difference(y []float64, d int) [][]float64 {
	diffs := make([][]float64, d+1)
	diffs[0] = append([]float64(nil), y...)
	for k := 1; k <= d; k++ {
		prev := diffs[k-1]
		next := make([]float64, len(prev)-1)
		floats.SubTo(next, prev[1:], prev[:len(prev)-1])
		diffs[k] = next
	}
	return diffs
}

// integrate undoes every level of differencing on a forecast that continues diffs[d]
func integrate(fc []float64, diffs [][]float64) []float64 {
	out := append([]float64(nil), fc...)
	for k := len(diffs) - 1; k >= 1; k-- {
		prev := diffs[k-1]
		level := prev[len(prev)-1]
		for i := range out {
			level += out[i]
			out[i] = level
		}
	}
	return out
}

// lagDesign builds the regression rows t = start..len(w)-1 of
// [w[t-1] .. w[t-p], e[t-1] .. e[t-q]] and their targets w[t]
func lagDesign(w, e []float64, p, q, start int) ([][]float64, []float64) {
	if start >= len(w) {
		return nil, nil
	}
	x := make([][]float64, 0, len(w)-start)
	target := make([]float64, 0, len(w)-start)
	for t := start; t < len(w); t++ {
		row := make([]float64, 0, p+q)
		for i := 1; i <= p; i++ {
			row = append(row, w[t-i])
		}
		for j := 1; j <= q; j++ {
			row = append(row, e[t-j])
		}
		x = append(x, row)
		target = append(target, w[t])
	}
	return x, target
}

// regress runs OLS of target on x and maps the regression failures onto model errors.
// A design without columns is either the mean or zero.
func regress(x [][]float64, target []float64, withIntercept bool) ([]float64, float64, error) {
	if len(target) == 0 {
		return nil, 0, ErrInsufficientData
	}
	if len(x[0]) == 0 {
		if withIntercept {
			return []float64{}, stat.Mean(target, nil), nil
		}
		return []float64{}, 0, nil
	}

	xMat, err := smat.NewDenseFromArray(x)
	if err != nil {
		return nil, 0, err
	}
	yMat, err := smat.NewColVector(target)
	if err != nil {
		return nil, 0, err
	}

	ols, err := linearmodel.NewOLSRegression(&linearmodel.OLSOptions{FitIntercept: withIntercept})
	if err != nil {
		return nil, 0, err
	}
	if err := ols.Fit(xMat, yMat); err != nil {
		switch {
		case errors.Is(err, linearmodel.ErrSingularMatrix):
			return nil, 0, fmt.Errorf("%s, %w", err.Error(), ErrSingularDesign)
		case errors.Is(err, linearmodel.ErrUnderdetermined):
			return nil, 0, fmt.Errorf("%s, %w", err.Error(), ErrInsufficientData)
		}
		return nil, 0, err
	}
	if cond := ols.Cond(); math.IsNaN(cond) || cond > MaxConditionNumber {
		return nil, 0, fmt.Errorf("condition number %g, %w", cond, ErrSingularDesign)
	}
	return ols.Coef(), ols.Intercept(), nil
}

// lagDot computes sum(coef[i] * w[t-1-i])
func lagDot(coef, w []float64, t int) float64 {
	v := 0.0
	for i, c := range coef {
		v += c * w[t-1-i]
	}
	return v
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
