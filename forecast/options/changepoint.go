package options

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/salesforecaster/go-salesforecaster/feature"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
)

const (
	DefaultAutoNumChangepoints = 25
	DefaultChangepointRange    = 0.8
)

// Changepoint describes a point in time that will change the ongoing trend. This will
// include both a bias and a slope feature.
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// ChangepointOptions configures the trend changes of the model. Auto changepoints are slope
// only hinges placed uniformly in the first Range fraction of the training window and are
// regularized so that only the significant ones survive. Changepoints lists known changes
// that are modeled with both a bias and a slope.
type ChangepointOptions struct {
	Changepoints        []Changepoint `json:"changepoints"`
	Auto                bool          `json:"auto"`
	AutoNumChangepoints int           `json:"auto_num_changepoints"`
	Range               float64       `json:"range"`
}

// NewDefaultChangepointOptions generates a set of default changepoint options
func NewDefaultChangepointOptions() ChangepointOptions {
	return ChangepointOptions{
		Auto:                true,
		AutoNumChangepoints: DefaultAutoNumChangepoints,
		Range:               DefaultChangepointRange,
	}
}

func (c ChangepointOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	auto := "off"
	if c.Auto {
		auto = fmt.Sprintf("%d in first %.0f%%", c.AutoNumChangepoints, c.Range*100)
	}
	if _, err := fmt.Fprintf(w, "%s%sAuto Changepoints: %s\n", prefix, util.IndentExpand(indent, indentGrowth), auto); err != nil {
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(c.Changepoints) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sChangepoints:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	if len(c.Changepoints) > 0 {
		fmt.Fprintf(tbl, "%s%sName\tDatetime\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	for _, chpt := range c.Changepoints {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			chpt.Name, chpt.T.Format(time.DateOnly))
	}
	return tbl.Flush()
}

// autoChangepoints returns the auto changepoint positions as fractions of the normalized
// training window. There are never more changepoints than training points.
func (c ChangepointOptions) autoChangepoints(numTrainPoints int) []float64 {
	if !c.Auto {
		return nil
	}
	n := c.AutoNumChangepoints
	if n <= 0 {
		n = DefaultAutoNumChangepoints
	}
	n = min(n, numTrainPoints-1)
	if n <= 0 {
		return nil
	}
	rng := c.Range
	if rng <= 0 || rng > 1 {
		rng = DefaultChangepointRange
	}

	pos := make([]float64, n)
	for i := 0; i < n; i++ {
		pos[i] = rng * float64(i+1) / float64(n+1)
	}
	return pos
}

// GenerateFeatures builds the changepoint features over the normalized epoch. Known
// changepoints outside the training window are skipped since they could never be fit.
func (c ChangepointOptions) GenerateFeatures(epoch []float64, numTrainPoints int, trainStart, trainEnd time.Time) *feature.Set {
	feat := feature.NewSet()

	for i, pos := range c.autoChangepoints(numTrainPoints) {
		slope := feature.NewChangepoint("auto_"+strconv.Itoa(i), feature.ChangepointCompSlope)
		feat.Set(slope, hinge(epoch, pos))
	}

	span := trainEnd.Sub(trainStart).Seconds()
	for i, chpt := range c.Changepoints {
		if chpt.T.Before(trainStart) || !chpt.T.Before(trainEnd) || span <= 0 {
			continue
		}
		name := strconv.Itoa(i)
		if chpt.Name != "" {
			name = chpt.Name
		}
		pos := chpt.T.Sub(trainStart).Seconds() / span

		bias := make([]float64, len(epoch))
		for j, e := range epoch {
			if e >= pos {
				bias[j] = 1.0
			}
		}
		feat.Set(feature.NewChangepoint(name, feature.ChangepointCompBias), bias)
		feat.Set(feature.NewChangepoint(name, feature.ChangepointCompSlope), hinge(epoch, pos))
	}
	return feat
}

func hinge(epoch []float64, pos float64) []float64 {
	out := make([]float64, len(epoch))
	for i, e := range epoch {
		if e > pos {
			out[i] = e - pos
		}
	}
	return out
}
