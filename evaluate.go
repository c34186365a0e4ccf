package salesforecaster

import (
	"github.com/salesforecaster/go-salesforecaster/score"
)

// Evaluation holds the accuracy of predictions against actual values. MAPE is a percent.
type Evaluation struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// Evaluate computes the MAE, RMSE and MAPE of predicted against actual. Any actual value
// of zero fails the MAPE computation.
func Evaluate(actual, predicted []float64) (*Evaluation, error) {
	mae, err := score.MAE(predicted, actual)
	if err != nil {
		return nil, &ComputationError{Op: "mae", Cause: err}
	}
	rmse, err := score.RMSE(predicted, actual)
	if err != nil {
		return nil, &ComputationError{Op: "rmse", Cause: err}
	}
	mape, err := score.MAPE(predicted, actual)
	if err != nil {
		return nil, &ComputationError{Op: "mape", Cause: err}
	}
	return &Evaluation{
		MAE:  mae,
		RMSE: rmse,
		MAPE: mape * 100,
	}, nil
}
