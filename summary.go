package salesforecaster

import (
	"fmt"
	"io"
	"time"
)

const summaryIndent = "  "

// WriteSummary prints the forecast header, the in-sample scores and a table of the fitted
// model behind res
func (s *SalesForecaster) WriteSummary(w io.Writer, res *Result) error {
	if res == nil {
		return ErrNoResult
	}
	if _, err := fmt.Fprintf(w, "Forecast: %s\n", res.Method); err != nil {
		return err
	}
	generated := "-"
	if !res.GeneratedAt.IsZero() {
		generated = res.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if _, err := fmt.Fprintf(w, "%sID: %s    Generated At: %s    Periods: %d\n",
		summaryIndent, res.ID, generated, res.Len()); err != nil {
		return err
	}
	if res.Scores != nil {
		if _, err := fmt.Fprintf(w, "%sMAPE: %.3f    MAE: %.3f    RMSE: %.3f    R2: %.3f\n",
			summaryIndent, res.Scores.MAPE, res.Scores.MAE, res.Scores.RMSE, res.Scores.R2); err != nil {
			return err
		}
	}

	switch {
	case res.Seasonal != nil:
		model, err := res.Seasonal.Model()
		if err != nil {
			return fmt.Errorf("unable to describe seasonal model, %w", err)
		}
		return model.TablePrint(w, "", summaryIndent)
	case res.ARIMA != nil:
		opt := *s.opt.ARIMAOptions
		opt.Order = res.ARIMA.Order()
		if _, err := fmt.Fprintln(w, "Options:"); err != nil {
			return err
		}
		if err := opt.TablePrint(w, "", summaryIndent, 1); err != nil {
			return err
		}
		summary, err := res.ARIMA.Summary()
		if err != nil {
			return fmt.Errorf("unable to summarize arima model, %w", err)
		}
		return summary.TablePrint(w, "", summaryIndent, 0)
	}
	return nil
}
