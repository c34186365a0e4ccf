package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"duplicate time": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"valid": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestCopy(t *testing.T) {
	tSeries := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	y := []float64{0, 1}
	ds, err := NewUnivariateDataset(tSeries, y)
	require.Nil(t, err)

	nextDs := ds.Copy()
	require.Equal(t, ds, nextDs)

	ds.T = []time.Time{
		time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	require.NotEqual(t, nextDs, ds)
}

func TestFutureTimes(t *testing.T) {
	testData := map[string]struct {
		t         []time.Time
		n         int
		inferFreq bool
		expected  []time.Time
		err       error
	}{
		"daily": {
			t: GenerateDays(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			n: 2,
			expected: []time.Time{
				time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		"single point defaults to daily": {
			t: []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			n: 1,
			expected: []time.Time{
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			},
		},
		"weekly steps by day": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			n: 2,
			expected: []time.Time{
				time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
			},
		},
		"weekly inferred": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			n:         1,
			inferFreq: true,
			expected: []time.Time{
				time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
			},
		},
		"gap inferred uses most common delta": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			},
			n:         1,
			inferFreq: true,
			expected: []time.Time{
				time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
			},
		},
		"zero periods": {
			t: GenerateDays(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			n: 0,
		},
		"negative periods": {
			t:   GenerateDays(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			n:   -1,
			err: ErrNegativePeriods,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			y := make([]float64, len(td.t))
			ds, err := NewUnivariateDataset(td.t, y)
			require.Nil(t, err)

			res, err := ds.FutureTimes(td.n)
			if td.inferFreq {
				res, err = ds.FutureTimesAt(td.n, ds.Freq())
			}
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMakeFutureTimes(t *testing.T) {
	days := GenerateDays(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ds, err := NewUnivariateDataset(days, []float64{1, 2, 3})
	require.Nil(t, err)

	res, err := ds.MakeFutureTimes(2)
	require.Nil(t, err)
	assert.Equal(t, GenerateDays(5, days[0]), res)

	res, err = ds.MakeFutureTimesAt(1, 12*time.Hour)
	require.Nil(t, err)
	assert.Equal(t, append(days, days[2].Add(12*time.Hour)), res)
}
