package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult is the portmanteau test for residual autocorrelation. A small PValue
// rejects the hypothesis of no autocorrelation up to Lags.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
}

// LjungBox computes Q = n(n+2) sum(r_k^2/(n-k)) over lags 1..lags. fitdf is the number of
// estimated model parameters removed from the degrees of freedom.
func LjungBox(residuals []float64, lags, fitdf int) (*LjungBoxResult, error) {
	n := len(residuals)
	if lags < 1 {
		return nil, ErrInvalidLags
	}
	if n < 3 {
		return nil, fmt.Errorf("got %d residuals, %w", n, ErrTooFewPoints)
	}
	if lags >= n {
		lags = n - 1
	}

	acf, err := ACF(residuals, lags)
	if err != nil {
		return nil, err
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}

// InformationCriteria of a fitted model with k estimated parameters
type InformationCriteria struct {
	LogLik float64 `json:"log_likelihood"`
	AIC    float64 `json:"aic"`
	AICc   float64 `json:"aicc"`
	BIC    float64 `json:"bic"`
}

func NewInformationCriteria(logLik float64, nObs, nParams int) InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}
	return InformationCriteria{
		LogLik: logLik,
		AIC:    aic,
		AICc:   aicc,
		BIC:    -2*logLik + k*math.Log(n),
	}
}

// GaussianLogLik is the concentrated log likelihood of n gaussian residuals with variance
// sigma2
func GaussianLogLik(sigma2 float64, n int) float64 {
	return -0.5 * float64(n) * (math.Log(2*math.Pi*sigma2) + 1)
}
