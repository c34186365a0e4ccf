package salesforecaster

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/salesforecaster/go-salesforecaster/timedataset"
)

var ErrNoResult = errors.New("no forecast result to plot")

// missing renders as a gap in the chart
const missing = "-"

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are
// left as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(dateLabels(t))
	for i, series := range seriesName {
		lineData := make([]opts.LineData, len(t))
		for j := range t {
			lineData[j] = lineValue(y[i], j)
		}
		line = line.AddSeries(series, lineData)
	}
	return line
}

// LineForecast generates an echart line chart of the observed history followed by the
// forecast with its lower and upper bounds
func LineForecast(history *timedataset.TimeDataset, res *Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    "Sales Forecast",
				Subtitle: res.Method,
			},
		),
	)

	n := history.Len() + res.Len()
	t := make([]time.Time, 0, n)
	t = append(t, history.T...)
	t = append(t, res.Dates()...)

	lineDataActual := make([]opts.LineData, 0, n)
	lineDataForecast := make([]opts.LineData, 0, n)
	lineDataUpper := make([]opts.LineData, 0, n)
	lineDataLower := make([]opts.LineData, 0, n)
	for i := 0; i < history.Len(); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: history.Y[i]})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: missing})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: missing})
		lineDataLower = append(lineDataLower, opts.LineData{Value: missing})
	}
	for _, row := range res.Rows {
		lineDataActual = append(lineDataActual, opts.LineData{Value: missing})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: row.Forecast})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: row.Upper})
		lineDataLower = append(lineDataLower, opts.LineData{Value: row.Lower})
	}

	line.SetXAxis(dateLabels(t)).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// PlotForecast renders an html page with the daily history and the forecast result
func (s *SalesForecaster) PlotForecast(w io.Writer, res *Result) error {
	if res == nil {
		return ErrNoResult
	}
	history, err := s.PrepareTimeSeries()
	if err != nil {
		return fmt.Errorf("unable to prepare history, %w", err)
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(history, res),
		LineTSeries(
			"Daily Revenue",
			[]string{"Revenue"},
			history.T,
			[][]float64{history.Y},
		),
	)
	return page.Render(w)
}

func dateLabels(t []time.Time) []string {
	labels := make([]string, len(t))
	for i, tp := range t {
		labels[i] = tp.Format(time.DateOnly)
	}
	return labels
}

func lineValue(y []float64, i int) opts.LineData {
	if i >= len(y) || math.IsNaN(y[i]) {
		return opts.LineData{Value: missing}
	}
	return opts.LineData{Value: y[i]}
}
