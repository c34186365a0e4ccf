package salesforecaster

import (
	"errors"
	"fmt"
)

var (
	ErrModelFit      = errors.New("model fit failed")
	ErrComputation   = errors.New("computation failed")
	ErrUnknownMethod = errors.New("unknown forecast method")
	ErrNoForecast    = errors.New("strategy produced no forecast")
)

// ModelFitError is a failure of a forecast strategy, including panics recovered from the
// numeric layer. Cause holds the underlying model error.
type ModelFitError struct {
	Method Method
	Cause  error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("unable to fit %s model, %v", e.Method, e.Cause)
}

func (e *ModelFitError) Unwrap() error {
	return e.Cause
}

func (e *ModelFitError) Is(target error) bool {
	return target == ErrModelFit
}

// ComputationError is a failure while computing an evaluation metric
type ComputationError struct {
	Op    string
	Cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("unable to compute %s, %v", e.Op, e.Cause)
}

func (e *ComputationError) Unwrap() error {
	return e.Cause
}

func (e *ComputationError) Is(target error) bool {
	return target == ErrComputation
}
