package score

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		mae       float64
		rmse      float64
		mape      float64
		err       error
	}{
		"perfect": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
		},
		"off by constant": {
			predicted: []float64{90, 190},
			actual:    []float64{100, 200},
			mae:       10,
			rmse:      10,
			mape:      (0.1 + 0.05) / 2,
		},
		"mixed errors": {
			predicted: []float64{1, 5},
			actual:    []float64{2, 2},
			mae:       2,
			rmse:      math.Sqrt(5),
			mape:      1,
		},
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
		"empty": {
			err: ErrEmpty,
		},
		"nan predicted": {
			predicted: []float64{math.NaN()},
			actual:    []float64{1},
			err:       ErrNaN,
		},
		"nan actual": {
			predicted: []float64{1},
			actual:    []float64{math.NaN()},
			err:       ErrNaN,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mae, err := MAE(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				_, err = RMSE(td.predicted, td.actual)
				assert.ErrorIs(t, err, td.err)
				_, err = MAPE(td.predicted, td.actual)
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.mae, mae, 1e-12, "mae")

			rmse, err := RMSE(td.predicted, td.actual)
			require.Nil(t, err)
			assert.InDelta(t, td.rmse, rmse, 1e-12, "rmse")

			mape, err := MAPE(td.predicted, td.actual)
			require.Nil(t, err)
			assert.InDelta(t, td.mape, mape, 1e-12, "mape")
		})
	}
}

func TestMAPEZeroActual(t *testing.T) {
	_, err := MAPE([]float64{1, 2}, []float64{1, 0})
	assert.ErrorIs(t, err, ErrZeroActual)
}

func TestRSquared(t *testing.T) {
	r2, err := RSquared([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)

	r2, err = RSquared([]float64{2, 2, 2}, []float64{1, 2, 3})
	require.Nil(t, err)
	assert.InDelta(t, 0.0, r2, 1e-12)
}

func TestNewScores(t *testing.T) {
	res, err := NewScores(
		[]float64{1, 2, math.NaN(), 4},
		[]float64{0, 2, 3, 5},
	)
	require.Nil(t, err)
	assert.InDelta(t, 2.0/3.0, res.MAE, 1e-12)
	assert.InDelta(t, 2.0/3.0, res.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), res.RMSE, 1e-12)
	assert.InDelta(t, 0.1, res.MAPE, 1e-12)

	_, err = NewScores([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrResLenMismatch)

	_, err = NewScores([]float64{math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestMetricProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pairs := func(a, b []float64) ([]float64, []float64) {
		n := min(len(a), len(b))
		return a[:n], b[:n]
	}

	properties.Property("0 <= MAE <= RMSE", prop.ForAll(
		func(a, b []float64) bool {
			actual, predicted := pairs(a, b)
			if len(actual) == 0 {
				return true
			}
			mae, err := MAE(predicted, actual)
			if err != nil {
				return false
			}
			rmse, err := RMSE(predicted, actual)
			if err != nil {
				return false
			}
			return mae >= 0 && mae <= rmse*(1+1e-12)+1e-12
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
	))

	properties.Property("identical sequences score zero", prop.ForAll(
		func(a []float64) bool {
			if len(a) == 0 {
				return true
			}
			for i := range a {
				if a[i] == 0 {
					a[i] = 1
				}
			}
			mae, err := MAE(a, a)
			if err != nil || mae != 0 {
				return false
			}
			rmse, err := RMSE(a, a)
			if err != nil || rmse != 0 {
				return false
			}
			mape, err := MAPE(a, a)
			return err == nil && mape == 0
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
	))

	properties.TestingRun(t)
}
