package arima

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/salesforecaster/go-salesforecaster/forecast/util"
	"github.com/salesforecaster/go-salesforecaster/stats"
)

// Summary describes a fitted model with its coefficients, information criteria and the
// Ljung-Box test on its residuals. LjungBox is nil when the residuals cannot be tested.
type Summary struct {
	Order     Order     `json:"order"`
	AR        []float64 `json:"ar"`
	MA        []float64 `json:"ma"`
	Intercept float64   `json:"intercept"`
	Sigma2    float64   `json:"sigma2"`
	NObs      int       `json:"n_obs"`

	stats.InformationCriteria
	LjungBox *stats.LjungBoxResult `json:"ljung_box,omitempty"`
}

// Summary computes the fit diagnostics. The log likelihood uses the maximum likelihood
// variance SSE/n and counts the residual variance as a parameter.
func (m *Model) Summary() (*Summary, error) {
	if !m.fitted {
		return nil, ErrNotFit
	}
	res := m.residuals[m.order.P:]
	n := len(res)

	logLik := stats.GaussianLogLik(m.sse/float64(n), n)
	s := &Summary{
		Order:               m.order,
		AR:                  m.AR(),
		MA:                  m.MA(),
		Intercept:           m.intercept,
		Sigma2:              m.sigma2,
		NObs:                n,
		InformationCriteria: stats.NewInformationCriteria(logLik, n, m.numCoef()+1),
	}

	lb, err := stats.LjungBox(res, min(DefaultLjungBoxLags, n-1), m.order.P+m.order.Q)
	if err == nil {
		s.LjungBox = lb
	}
	return s, nil
}

func (s *Summary) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%s%s:\n", prefix, util.IndentExpand(indent, indentGrowth), s.Order); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sObservations: %d    Sigma2: %.4f\n",
		prefix, util.IndentExpand(indent, indentGrowth+1), s.NObs, s.Sigma2); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sLogLik: %.3f    AIC: %.3f    AICc: %.3f    BIC: %.3f\n",
		prefix, util.IndentExpand(indent, indentGrowth+1),
		s.LogLik, s.AIC, s.AICc, s.BIC); err != nil {
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "%s%sTerm\tValue\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	if s.Order.D == 0 {
		fmt.Fprintf(tbl, "%s%sintercept\t%.4f\t\n", prefix, util.IndentExpand(indent, indentGrowth+1), s.Intercept)
	}
	for i, v := range s.AR {
		fmt.Fprintf(tbl, "%s%sar.L%d\t%.4f\t\n", prefix, util.IndentExpand(indent, indentGrowth+1), i+1, v)
	}
	for i, v := range s.MA {
		fmt.Fprintf(tbl, "%s%sma.L%d\t%.4f\t\n", prefix, util.IndentExpand(indent, indentGrowth+1), i+1, v)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if s.LjungBox == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s%sLjung-Box: Q=%.3f  lags=%d  p=%.4f\n",
		prefix, util.IndentExpand(indent, indentGrowth+1),
		s.LjungBox.Statistic, s.LjungBox.Lags, s.LjungBox.PValue)
	return err
}
