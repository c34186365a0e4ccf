// Package linearmodel is a collection of linear regression fitting implementations used by
// the forecasting models.
package linearmodel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrSingularMatrix     = errors.New("design matrix is singular")
	ErrUnderdetermined    = errors.New("fewer observations than features")
)

type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Intercept() float64
	Coef() []float64
}

func validateTraining(x, y mat.Matrix) error {
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}
	return nil
}

// withIntercept prepends a column of ones
func withIntercept(x mat.Matrix) *mat.Dense {
	m, n := x.Dims()
	out := mat.NewDense(m, n+1, nil)
	for i := 0; i < m; i++ {
		out.Set(i, 0, 1.0)
		for j := 0; j < n; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}

func predict(x mat.Matrix, intercept float64, coef []float64) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != len(coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(coef), ErrFeatureLenMismatch)
	}

	res := make([]float64, m)
	if n == 0 {
		for i := range res {
			res[i] = intercept
		}
		return res, nil
	}

	var out mat.VecDense
	out.MulVec(x, mat.NewVecDense(n, append([]float64(nil), coef...)))
	for i := range res {
		res[i] = out.AtVec(i) + intercept
	}
	return res, nil
}

func score(m Model, x, y mat.Matrix) (float64, error) {
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}
	xm, _ := x.Dims()
	ym, _ := y.Dims()
	if xm != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", xm, ym, ErrTargetLenMismatch)
	}

	res, err := m.Predict(x)
	if err != nil {
		return 0.0, err
	}
	r2 := stat.RSquaredFrom(res, mat.Col(nil, 0, y), nil)
	if math.IsNaN(r2) {
		// constant target perfectly explained by the intercept
		r2 = 1.0
	}
	return r2, nil
}
