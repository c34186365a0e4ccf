package salesforecaster

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/salesforecaster/go-salesforecaster/arima"
	"github.com/salesforecaster/go-salesforecaster/dataset"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start       = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	generatedAt = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
)

// salesFrame builds daily revenue with a trend and weekly cycle split across two orders per
// day. The first order of each day has a string date and the second a time.Time.
func salesFrame(t *testing.T, days int, seed uint64) *dataset.Frame {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]any, 0, 2*days)
	for i := range days {
		day := start.AddDate(0, 0, i)
		total := 200 + 0.5*float64(i) + 30*math.Sin(2*math.Pi*float64(i)/7) + 5*r.NormFloat64()
		rows = append(rows,
			[]any{day.Format(time.DateOnly), math.Round(total*60) / 100},
			[]any{day.Add(15 * time.Hour), math.Round(total*40) / 100},
		)
	}
	frame, err := dataset.NewFrame([]string{"Date", "Revenue"}, rows)
	require.Nil(t, err)
	return frame
}

// weeklyFrame has a single order every seventh day
func weeklyFrame(t *testing.T, weeks int, seed uint64) *dataset.Frame {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]any, weeks)
	for i := range rows {
		total := 1400 + 6*float64(i) + 40*r.NormFloat64()
		rows[i] = []any{start.AddDate(0, 0, 7*i).Format(time.DateOnly), math.Round(total*100) / 100}
	}
	frame, err := dataset.NewFrame([]string{"Date", "Revenue"}, rows)
	require.Nil(t, err)
	return frame
}

func newTestForecaster(t *testing.T, frame *dataset.Frame, opt *Options) *SalesForecaster {
	t.Helper()
	s, err := New(frame, opt)
	require.Nil(t, err)
	s.now = func() time.Time { return generatedAt }
	return s
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		frame *dataset.Frame
		opt   *Options
		err   error
	}{
		"nil frame": {
			err: timedataset.ErrNoTrainingData,
		},
		"missing value column": {
			frame: &dataset.Frame{Columns: []string{"Date", "Sales"}, Rows: [][]any{{"2024-01-01", 1.0}}},
			err:   dataset.ErrSchema,
		},
		"missing date column": {
			frame: &dataset.Frame{Columns: []string{"Revenue"}, Rows: [][]any{{1.0}}},
			err:   dataset.ErrSchema,
		},
		"unparseable date": {
			frame: &dataset.Frame{Columns: []string{"Date", "Revenue"}, Rows: [][]any{{"yesterday", 1.0}}},
			err:   timedataset.ErrParse,
		},
		"unparseable value": {
			frame: &dataset.Frame{Columns: []string{"Date", "Revenue"}, Rows: [][]any{{"2024-01-01", "lots"}}},
			err:   timedataset.ErrParse,
		},
		"no rows": {
			frame: &dataset.Frame{Columns: []string{"Date", "Revenue"}},
			err:   timedataset.ErrNoTrainingData,
		},
		"custom columns": {
			frame: &dataset.Frame{Columns: []string{"day", "amount"}, Rows: [][]any{{"2024-01-01", 1.0}}},
			opt:   &Options{DateColumn: "day", ValueColumn: "amount"},
		},
		"invalid arima order": {
			frame: &dataset.Frame{Columns: []string{"Date", "Revenue"}, Rows: [][]any{{"2024-01-01", 1.0}}},
			opt:   &Options{ARIMAOptions: &arima.Options{Order: arima.Order{P: -1}}},
			err:   arima.ErrInvalidOrder,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := New(td.frame, td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	opt, err := (*Options)(nil).Validate()
	require.Nil(t, err)
	assert.Equal(t, DefaultDateColumn, opt.DateColumn)
	assert.Equal(t, DefaultValueColumn, opt.ValueColumn)
	assert.Equal(t, arima.DefaultOrder, opt.ARIMAOptions.Order)
	assert.NotNil(t, opt.SeasonalOptions)
	assert.NotNil(t, opt.Logger)
	assert.NotNil(t, opt.Registerer)

	opt, err = (&Options{ValueColumn: "Sales"}).Validate()
	require.Nil(t, err)
	assert.Equal(t, DefaultDateColumn, opt.DateColumn)
	assert.Equal(t, "Sales", opt.ValueColumn)
	assert.Equal(t, arima.DefaultAlpha, opt.ARIMAOptions.Alpha)
	assert.NotNil(t, opt.SeasonalOptions.Logger)
}

func TestPrepareTimeSeries(t *testing.T) {
	frame := &dataset.Frame{
		Columns: []string{"Date", "Revenue"},
		Rows: [][]any{
			{"2024-01-03", "10.10"},
			{"2024-01-01", 5},
			{time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC), 0.2},
			{"2024-01-01", "2.5"},
		},
	}
	s := newTestForecaster(t, frame, nil)

	series, err := s.PrepareTimeSeries()
	require.Nil(t, err)
	assert.Equal(t, []time.Time{start, start.AddDate(0, 0, 2)}, series.T)
	assert.Equal(t, []float64{7.5, 10.3}, series.Y)
}

func TestNewCopiesFrame(t *testing.T) {
	frame := &dataset.Frame{
		Columns: []string{"Date", "Revenue"},
		Rows:    [][]any{{"2024-01-01", 1.0}, {"2024-01-02", 2.0}},
	}
	s := newTestForecaster(t, frame, nil)

	frame.Rows[0][1] = 100.0
	frame.Rows = append(frame.Rows, []any{"2024-01-03", 3.0})

	series, err := s.PrepareTimeSeries()
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, series.Y)
}

func TestParseMethod(t *testing.T) {
	testData := map[string]struct {
		name     string
		expected Method
		err      error
	}{
		"empty":          {name: "", expected: MethodSeasonal},
		"seasonal":       {name: "seasonal-decomposition", expected: MethodSeasonal},
		"short seasonal": {name: "seasonal", expected: MethodSeasonal},
		"prophet":        {name: "Prophet", expected: MethodSeasonal},
		"autoregressive": {name: "autoregressive", expected: MethodAutoregressive},
		"arima":          {name: " ARIMA ", expected: MethodAutoregressive},
		"unknown":        {name: "neural", err: ErrUnknownMethod},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := ParseMethod(td.name)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, m)
		})
	}
	assert.Equal(t, "unknown", Method(42).String())
}

func TestGenerateForecastSeasonal(t *testing.T) {
	s := newTestForecaster(t, salesFrame(t, 120, 1), nil)

	res := s.GenerateForecast(14, MethodSeasonal)
	require.NotNil(t, res)
	assert.Equal(t, "SEASONAL-DECOMPOSITION", res.Method)
	assert.Equal(t, generatedAt, res.GeneratedAt)
	assert.NotEqual(t, uuid.Nil, res.ID)
	require.NotNil(t, res.Scores)
	assert.Less(t, res.Scores.MAPE, 0.1)

	require.Equal(t, 14, res.Len())
	lastObserved := start.AddDate(0, 0, 119)
	for i, row := range res.Rows {
		assert.Equal(t, lastObserved.AddDate(0, 0, i+1), row.Date, "row %d", i)
		assert.LessOrEqual(t, row.Lower, row.Forecast, "row %d", i)
		assert.LessOrEqual(t, row.Forecast, row.Upper, "row %d", i)
		assert.InDelta(t, 260, row.Forecast, 60, "row %d", i)
	}
}

func TestForecastSeasonalIsUnstamped(t *testing.T) {
	s := newTestForecaster(t, salesFrame(t, 60, 2), nil)

	res := s.ForecastSeasonal(7)
	require.NotNil(t, res)
	assert.Equal(t, 7, res.Len())
	assert.Empty(t, res.Method)
	assert.True(t, res.GeneratedAt.IsZero())
	assert.Equal(t, uuid.Nil, res.ID)
}

func TestGenerateForecastARIMA(t *testing.T) {
	s := newTestForecaster(t, salesFrame(t, 120, 3), nil)

	res := s.GenerateForecast(10, MethodAutoregressive)
	require.NotNil(t, res)
	assert.Equal(t, "AUTOREGRESSIVE", res.Method)
	require.Equal(t, 10, res.Len())

	series, err := s.PrepareTimeSeries()
	require.Nil(t, err)
	m, err := arima.New(arima.DefaultOrder)
	require.Nil(t, err)
	require.Nil(t, m.Fit(series.Y))
	fitted := m.FittedValues()
	lastFitted := fitted[len(fitted)-1]

	lastObserved := series.T[len(series.T)-1]
	for i, row := range res.Rows {
		// every forecast repeats the last in-sample fitted value
		assert.Equal(t, lastFitted, row.Forecast, "row %d", i)
		assert.Equal(t, lastObserved.AddDate(0, 0, i+1), row.Date, "row %d", i)
		assert.Less(t, row.Lower, row.Upper, "row %d", i)
	}

	lower, upper, err := m.ConfInt(10, arima.DefaultAlpha)
	require.Nil(t, err)
	assert.Equal(t, lower, res.Lowers())
	assert.Equal(t, upper, res.Uppers())
}

func TestForecastSparseSales(t *testing.T) {
	lastObserved := start.AddDate(0, 0, 7*39)

	testData := map[string]struct {
		method    Method
		inferFreq bool
		step      int
	}{
		"seasonal steps by day": {
			method: MethodSeasonal,
			step:   1,
		},
		"arima steps by day": {
			method: MethodAutoregressive,
			step:   1,
		},
		"seasonal inferred weekly": {
			method:    MethodSeasonal,
			inferFreq: true,
			step:      7,
		},
		"arima inferred weekly": {
			method:    MethodAutoregressive,
			inferFreq: true,
			step:      7,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := NewDefaultOptions()
			opt.InferFreq = td.inferFreq
			s := newTestForecaster(t, weeklyFrame(t, 40, 5), opt)

			res := s.GenerateForecast(3, td.method)
			require.NotNil(t, res)
			require.Equal(t, 3, res.Len())
			for i, row := range res.Rows {
				assert.Equal(t, lastObserved.AddDate(0, 0, td.step*(i+1)), row.Date, "row %d", i)
			}
		})
	}
}

func TestForecastARIMAOrderOverride(t *testing.T) {
	s := newTestForecaster(t, salesFrame(t, 60, 4), nil)

	res := s.ForecastARIMA(5, arima.Order{P: 1, D: 1})
	require.NotNil(t, res)
	assert.Equal(t, 5, res.Len())

	assert.Nil(t, s.ForecastARIMA(5, arima.Order{Q: -1}))
}

func TestForecastAbsent(t *testing.T) {
	single := &dataset.Frame{
		Columns: []string{"Date", "Revenue"},
		Rows:    [][]any{{"2024-01-01", 10.0}},
	}

	testData := map[string]struct {
		frame   *dataset.Frame
		periods int
		method  Method
	}{
		"single point seasonal":       {frame: single, periods: 7, method: MethodSeasonal},
		"single point arima":          {frame: single, periods: 7, method: MethodAutoregressive},
		"zero periods seasonal":       {frame: salesFrame(t, 30, 5), periods: 0, method: MethodSeasonal},
		"negative periods arima":      {frame: salesFrame(t, 60, 5), periods: -1, method: MethodAutoregressive},
		"unknown method":              {frame: salesFrame(t, 30, 5), periods: 7, method: Method(7)},
		"too short for default arima": {frame: salesFrame(t, 20, 5), periods: 7, method: MethodAutoregressive},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			s := newTestForecaster(t, td.frame, &Options{
				Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
			})

			assert.NotPanics(t, func() {
				assert.Nil(t, s.GenerateForecast(td.periods, td.method))
			})
			out := buf.String()
			assert.Contains(t, out, `"msg":"unable to generate forecast"`)
			assert.Contains(t, out, `"method":"`+td.method.String()+`"`)
			assert.Contains(t, out, `"error":`)
		})
	}
}

func TestStrategyDispatch(t *testing.T) {
	rows := []Row{
		{Date: start.AddDate(0, 0, 3), Forecast: 10, Lower: 8, Upper: 12},
		{Date: start.AddDate(0, 0, 4), Forecast: 11, Lower: 8, Upper: 14},
	}
	frame := &dataset.Frame{
		Columns: []string{"Date", "Revenue"},
		Rows:    [][]any{{"2024-01-01", 10.0}, {"2024-01-02", 11.0}, {"2024-01-03", 9.0}},
	}
	errBoom := errors.New("boom")

	testData := map[string]struct {
		method   Method
		setup    func(m *Mockstrategy)
		expected *Result
		cause    error
		panics   bool
	}{
		"seasonal result is stamped": {
			method: MethodSeasonal,
			setup: func(m *Mockstrategy) {
				m.EXPECT().FitAndForecast(gomock.Any(), 2).Return(&Result{Rows: rows}, nil)
			},
			expected: &Result{Method: "SEASONAL-DECOMPOSITION", GeneratedAt: generatedAt, Rows: rows},
		},
		"autoregressive result is stamped": {
			method: MethodAutoregressive,
			setup: func(m *Mockstrategy) {
				m.EXPECT().FitAndForecast(gomock.Any(), 2).Return(&Result{Rows: rows}, nil)
			},
			expected: &Result{Method: "AUTOREGRESSIVE", GeneratedAt: generatedAt, Rows: rows},
		},
		"error is absent": {
			method: MethodSeasonal,
			setup: func(m *Mockstrategy) {
				m.EXPECT().FitAndForecast(gomock.Any(), 2).Return(nil, errBoom)
			},
			cause: errBoom,
		},
		"no result is absent": {
			method: MethodAutoregressive,
			setup: func(m *Mockstrategy) {
				m.EXPECT().FitAndForecast(gomock.Any(), 2).Return(nil, nil)
			},
			cause: ErrNoForecast,
		},
		"panic is recovered": {
			method: MethodAutoregressive,
			setup: func(m *Mockstrategy) {
				m.EXPECT().FitAndForecast(gomock.Any(), 2).DoAndReturn(
					func(*timedataset.TimeDataset, int) (*Result, error) {
						panic(errBoom)
					},
				)
			},
			cause:  errBoom,
			panics: true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mock := NewMockstrategy(ctrl)
			td.setup(mock)

			var buf bytes.Buffer
			reg := prometheus.NewRegistry()
			s := newTestForecaster(t, frame, &Options{
				Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
				Registerer: reg,
			})
			s.strategies = map[Method]strategy{td.method: mock}

			res := s.GenerateForecast(2, td.method)
			if td.cause != nil {
				assert.Nil(t, res)
				assert.Contains(t, buf.String(), td.cause.Error())
				if td.panics {
					assert.Contains(t, buf.String(), "recovered panic")
				}
				assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.forecasts.WithLabelValues(td.method.String(), outcomeFailure)))
				return
			}
			require.NotNil(t, res)
			assert.NotEqual(t, uuid.Nil, res.ID)
			res.ID = uuid.Nil
			assert.Equal(t, td.expected, res)
			assert.Empty(t, buf.String())
			assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.forecasts.WithLabelValues(td.method.String(), outcomeSuccess)))
		})
	}
}

func TestModelFitError(t *testing.T) {
	cause := arima.ErrInsufficientData
	var err error = &ModelFitError{Method: MethodAutoregressive, Cause: cause}

	assert.ErrorIs(t, err, ErrModelFit)
	assert.ErrorIs(t, err, arima.ErrInsufficientData)
	assert.NotErrorIs(t, err, ErrComputation)
	assert.True(t, strings.HasPrefix(err.Error(), "unable to fit autoregressive model"))

	var fitErr *ModelFitError
	require.True(t, errors.As(err, &fitErr))
	assert.Equal(t, MethodAutoregressive, fitErr.Method)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	frame := salesFrame(t, 60, 6)

	s1 := newTestForecaster(t, frame, &Options{Registerer: reg})
	s2 := newTestForecaster(t, frame, &Options{Registerer: reg})

	require.NotNil(t, s1.GenerateForecast(7, MethodSeasonal))
	require.Nil(t, s2.GenerateForecast(0, MethodAutoregressive))

	// both forecasters share the collectors of the registry
	assert.Equal(t, 1.0, testutil.ToFloat64(s2.metrics.forecasts.WithLabelValues("seasonal-decomposition", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s1.metrics.forecasts.WithLabelValues("autoregressive", outcomeFailure)))

	count, err := testutil.GatherAndCount(reg, "salesforecast_forecasts_total")
	require.Nil(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(reg, "salesforecast_fit_duration_seconds")
	require.Nil(t, err)
	assert.Equal(t, 2, count)
}
