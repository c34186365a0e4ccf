package options

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/salesforecaster/go-salesforecaster/feature"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
)

const (
	LabelSeasYearly = "yearly"
	LabelSeasWeekly = "weekly"

	YearlyPeriod = time.Duration(365.25 * 24 * float64(time.Hour))
	WeeklyPeriod = 7 * 24 * time.Hour

	DefaultYearlyOrders = 10
	DefaultWeeklyOrders = 3
)

// SeasonalityOptions configures the number of seasonality components to fit for.
type SeasonalityOptions struct {
	SeasonalityConfigs []SeasonalityConfig `json:"seasonality_configs"`
}

// NewDefaultSeasonalityOptions generates a default seasonality config with yearly and weekly
// seasonal components
func NewDefaultSeasonalityOptions() SeasonalityOptions {
	return SeasonalityOptions{
		SeasonalityConfigs: []SeasonalityConfig{
			NewYearlySeasonalityConfig(DefaultYearlyOrders),
			NewWeeklySeasonalityConfig(DefaultWeeklyOrders),
		},
	}
}

func (s SeasonalityOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	noCfg := " None"
	if len(s.SeasonalityConfigs) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sSeasonality:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if len(s.SeasonalityConfigs) > 0 {
		fmt.Fprintf(tbl, "%s%sName\tPeriod\tOrders\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	for _, seasCfg := range s.SeasonalityConfigs {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%d\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			seasCfg.Name, seasCfg.Period, seasCfg.Orders)
	}
	return tbl.Flush()
}

// valid drops unnamed, empty and duplicate period configs keeping the one with the most
// orders and sorts the remaining configs by period
func (s SeasonalityOptions) valid() []SeasonalityConfig {
	cfgs := make([]SeasonalityConfig, 0, len(s.SeasonalityConfigs))
	for _, c := range s.SeasonalityConfigs {
		if c.Name == "" || c.Orders <= 0 || c.Period <= 0 {
			continue
		}
		cfgs = append(cfgs, c)
	}
	sort.SliceStable(cfgs, func(i, j int) bool {
		if cfgs[i].Period != cfgs[j].Period {
			return cfgs[i].Period < cfgs[j].Period
		}
		return cfgs[i].Orders > cfgs[j].Orders
	})

	out := make([]SeasonalityConfig, 0, len(cfgs))
	for i, c := range cfgs {
		if i > 0 && c.Period == cfgs[i-1].Period {
			continue
		}
		out = append(out, c)
	}
	return out
}

// GenerateFeatures builds the Fourier terms of every seasonality whose period fits within the
// training span. Phases are anchored on the unix epoch so the same time always maps to the
// same value regardless of the training window.
func (s SeasonalityOptions) GenerateFeatures(t []time.Time, trainSpan time.Duration) *feature.Set {
	days := make([]float64, len(t))
	for i, tp := range t {
		days[i] = float64(tp.Unix()) / 86400.0
	}

	feat := feature.NewSet()
	for _, cfg := range s.valid() {
		if cfg.Period > trainSpan {
			continue
		}
		period := cfg.Period.Hours() / 24.0
		for order := 1; order <= cfg.Orders; order++ {
			// higher orders at or beyond the nyquist frequency of daily data alias onto lower ones
			if period/float64(order) < 2.0 {
				break
			}
			sinFeat := feature.NewSeasonality(cfg.Name, feature.FourierCompSin, order)
			cosFeat := feature.NewSeasonality(cfg.Name, feature.FourierCompCos, order)
			feat.Set(sinFeat, sinFeat.Generate(days, period))
			feat.Set(cosFeat, cosFeat.Generate(days, period))
		}
	}
	return feat
}

// SeasonalityConfig represents a single seasonality configuration to model. This will generate
// Fourier series of the specified period and number of orders. E.g. a period of 7 days with 3
// orders will create 6 Fourier series of order 1, 2, 3 for the sine/cosine components.
type SeasonalityConfig struct {
	Name   string        `json:"name"`
	Orders int           `json:"orders"`
	Period time.Duration `json:"period"`
}

// NewSeasonalityConfig creates a new seasonality config given a name, period and orders
func NewSeasonalityConfig(name string, period time.Duration, orders int) SeasonalityConfig {
	if orders < 0 {
		orders = 0
	}

	return SeasonalityConfig{
		Name:   name,
		Orders: orders,
		Period: period,
	}
}

func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasYearly, YearlyPeriod, orders)
}

func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasWeekly, WeeklyPeriod, orders)
}
