package salesforecaster

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/salesforecaster/go-salesforecaster/arima"
	"github.com/salesforecaster/go-salesforecaster/score"
	"github.com/salesforecaster/go-salesforecaster/seasonal"
)

// CSVHeader is the column order written by Result.WriteCSV
var CSVHeader = []string{"Date", "Forecast", "Lower", "Upper", "Method", "GeneratedAt"}

// Row is a single forecast date with its point forecast and interval bounds
type Row struct {
	Date     time.Time `json:"date"`
	Forecast float64   `json:"forecast"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// Result is the forecast table produced by a strategy. ID, Method and GeneratedAt are
// only set once GenerateForecast stamps the result. Scores are the in-sample fit scores and
// are nil when the fit could not be scored.
type Result struct {
	ID          uuid.UUID     `json:"id"`
	Method      string        `json:"method"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []Row         `json:"rows"`
	Scores      *score.Scores `json:"scores,omitempty"`

	// Seasonal is the fitted model behind a seasonal decomposition forecast
	Seasonal *seasonal.Forecaster `json:"-"`

	// ARIMA is the fitted model behind an autoregressive forecast
	ARIMA *arima.Model `json:"-"`
}

// Len returns the number of forecast rows
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

func (r *Result) Dates() []time.Time {
	out := make([]time.Time, r.Len())
	for i, row := range r.Rows {
		out[i] = row.Date
	}
	return out
}

func (r *Result) Forecasts() []float64 {
	out := make([]float64, r.Len())
	for i, row := range r.Rows {
		out[i] = row.Forecast
	}
	return out
}

func (r *Result) Lowers() []float64 {
	out := make([]float64, r.Len())
	for i, row := range r.Rows {
		out[i] = row.Lower
	}
	return out
}

func (r *Result) Uppers() []float64 {
	out := make([]float64, r.Len())
	for i, row := range r.Rows {
		out[i] = row.Upper
	}
	return out
}

// stamp sets the method tag, generation time and a new ID
func (r *Result) stamp(method Method, now time.Time) {
	r.ID = uuid.New()
	r.Method = methodTag(method)
	r.GeneratedAt = now
}

// WriteCSV writes the rows with a header line. Dates are written as calendar dates and
// the generation time as RFC3339.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	var generatedAt string
	if !r.GeneratedAt.IsZero() {
		generatedAt = r.GeneratedAt.Format(time.RFC3339)
	}
	for _, row := range r.Rows {
		rec := []string{
			row.Date.Format(time.DateOnly),
			strconv.FormatFloat(row.Forecast, 'f', -1, 64),
			strconv.FormatFloat(row.Lower, 'f', -1, 64),
			strconv.FormatFloat(row.Upper, 'f', -1, 64),
			r.Method,
			generatedAt,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the indented JSON form of the result
func (r *Result) WriteJSON(w io.Writer) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
