// Package score measures how far predictions are from actual values.
package score

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrEmpty          = errors.New("no values to score")
	ErrZeroActual     = errors.New("actual value is zero")
	ErrNaN            = errors.New("value is NaN")
)

func validate(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrEmpty
	}
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			return fmt.Errorf("at index %d, %w", i, ErrNaN)
		}
	}
	return nil
}

// MAE computes the mean absolute error, mean(|y-yhat|)
func MAE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}
	mae := 0.0
	for i := range actual {
		mae += math.Abs(actual[i] - predicted[i])
	}
	return mae / float64(len(actual)), nil
}

// MSE computes the mean squared error, mean((y-yhat)^2). A score of 0 means a perfect
// match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}
	mse := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		mse += diff * diff
	}
	return mse / float64(len(actual)), nil
}

// RMSE is the square root of MSE
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAPE calculates the mean absolute percent error as a fraction, mean(|(y-yhat)/y|). Any
// zero actual value is an error.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}
	mape := 0.0
	for i := range actual {
		if actual[i] == 0 {
			return 0, fmt.Errorf("at index %d, %w", i, ErrZeroActual)
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	return mape / float64(len(actual)), nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}

// Scores tracks the in-sample fit scores of a model
type Scores struct {
	MAE  float64 `json:"mean_absolute_error"`
	MSE  float64 `json:"mean_squared_error"`
	RMSE float64 `json:"root_mean_squared_error"`
	MAPE float64 `json:"mean_absolute_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values.
// Pairs holding a NaN are skipped, and MAPE only averages over non-zero actual values so
// days without sales do not invalidate the fit scores.
func NewScores(predicted, actual []float64) (*Scores, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	var pNonZero, aNonZero []float64
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
		if actual[i] != 0 {
			pNonZero = append(pNonZero, predicted[i])
			aNonZero = append(aNonZero, actual[i])
		}
	}

	mae, err := MAE(p, a)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mse, err := MSE(p, a)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	rs, err := RSquared(p, a)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	var mape float64
	if len(aNonZero) > 0 {
		if mape, err = MAPE(pNonZero, aNonZero); err != nil {
			return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
		}
	}

	return &Scores{
		MAE:  mae,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAPE: mape,
		R2:   rs,
	}, nil
}
