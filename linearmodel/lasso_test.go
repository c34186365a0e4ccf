package linearmodel

import (
	"testing"

	mat_ "github.com/salesforecaster/go-salesforecaster/mat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLassoOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *LassoOptions
		err      error
		expected *LassoOptions
	}{
		"nil": {nil, nil, NewDefaultLassoOptions()},
		"valid": {
			&LassoOptions{
				Lambda:     1.0,
				Iterations: 100,
				Tolerance:  1e-5,
			}, nil,
			&LassoOptions{
				Lambda:     1.0,
				Iterations: 100,
				Tolerance:  1e-5,
			},
		},
		"invalid lambda": {
			&LassoOptions{Lambda: -1.0},
			ErrNegativeLambda, nil,
		},
		"invalid iterations": {
			&LassoOptions{Iterations: -1.0},
			ErrNegativeIterations, nil,
		},
		"invalid tolerance": {
			&LassoOptions{Tolerance: -1.0},
			ErrNegativeTolerance, nil,
		},
		"invalid penalty factor": {
			&LassoOptions{PenaltyFactor: []float64{1, -1}},
			ErrNegativePenaltyFactor, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestLassoRegression(t *testing.T) {
	x, y := linearData(t)

	testData := map[string]struct {
		x         mat.Matrix
		opt       *LassoOptions
		intercept float64
		coef      []float64
	}{
		"model intercept": {
			x: x,
			opt: &LassoOptions{
				Iterations:   100000,
				Tolerance:    1e-12,
				FitIntercept: true,
			},
			intercept: 2,
			coef:      []float64{3, 4},
		},
		"explicit intercept column": {
			x: withIntercept(x),
			opt: &LassoOptions{
				Iterations: 100000,
				Tolerance:  1e-12,
			},
			intercept: 0,
			coef:      []float64{2, 3, 4},
		},
		"unpenalized features with large lambda": {
			x: x,
			opt: &LassoOptions{
				Lambda:        1000,
				PenaltyFactor: []float64{0, 0},
				Iterations:    100000,
				Tolerance:     1e-12,
				FitIntercept:  true,
			},
			intercept: 2,
			coef:      []float64{3, 4},
		},
		"warm start": {
			x: x,
			opt: &LassoOptions{
				WarmStartBeta: []float64{3, 4},
				Iterations:    100000,
				Tolerance:     1e-12,
				FitIntercept:  true,
			},
			intercept: 2,
			coef:      []float64{3, 4},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewLassoRegression(td.opt)
			require.Nil(t, err)
			testModel(t, model, td.x, y, td.intercept, td.coef, 1e-4)
		})
	}
}

func TestLassoShrinksPenalizedFeature(t *testing.T) {
	// y = 1 + 2*x0 with an irrelevant x1
	x, err := mat_.NewDenseFromArray([][]float64{
		{0, 1},
		{1, -1},
		{2, 1},
		{3, -1},
		{4, 1},
		{5, -1},
	})
	require.Nil(t, err)
	y, err := mat_.NewColVector([]float64{1, 3, 5, 7, 9, 11})
	require.Nil(t, err)

	model, err := NewLassoRegression(&LassoOptions{
		Lambda:        10,
		PenaltyFactor: []float64{0, 1},
		Iterations:    100000,
		Tolerance:     1e-12,
		FitIntercept:  true,
	})
	require.Nil(t, err)
	require.Nil(t, model.Fit(x, y))

	coef := model.Coef()
	assert.Equal(t, 0.0, coef[1])
	assert.InDelta(t, 2.0, coef[0], 1e-4)
	assert.InDelta(t, 1.0, model.Intercept(), 1e-4)
}

func TestLassoRegressionErrors(t *testing.T) {
	x, y := linearData(t)

	testData := map[string]struct {
		opt *LassoOptions
		err error
	}{
		"warm start size": {
			opt: &LassoOptions{WarmStartBeta: []float64{1}, FitIntercept: true},
			err: ErrWarmStartBetaSize,
		},
		"penalty size": {
			opt: &LassoOptions{PenaltyFactor: []float64{1, 1, 1}},
			err: ErrPenaltyFactorSize,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewLassoRegression(td.opt)
			require.Nil(t, err)
			assert.ErrorIs(t, model.Fit(x, y), td.err)
		})
	}

	assert.ErrorIs(t, (&LassoRegression{}).Fit(x, y), ErrNoOptions)
}

func TestSoftThreshold(t *testing.T) {
	testData := map[string]struct {
		x        float64
		gamma    float64
		expected float64
	}{
		"positive above":  {x: 3, gamma: 1, expected: 2},
		"negative above":  {x: -3, gamma: 1, expected: -2},
		"within":          {x: 0.5, gamma: 1, expected: 0},
		"negative within": {x: -0.5, gamma: 1, expected: 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, SoftThreshold(td.x, td.gamma))
		})
	}
}
