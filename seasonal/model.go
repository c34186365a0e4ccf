package seasonal

import (
	"fmt"
	"io"

	"github.com/salesforecaster/go-salesforecaster/forecast"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
)

// Model is the serializeable form of a fit Forecaster
type Model struct {
	Options     *Options       `json:"options"`
	Series      forecast.Model `json:"series"`
	Uncertainty forecast.Model `json:"uncertainty"`
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%s%sOptions:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
			return err
		}
		if err := m.Options.TablePrint(w, prefix, indent, 1); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s%sSeries:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if err := m.Series.TablePrint(w, prefix, indent, 1); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sUncertainty:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if err := m.Uncertainty.TablePrint(w, prefix, indent, 1); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
