package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n time points spaced by interval ending one interval before the
// minute truncated time returned by nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).UTC().Add(-time.Duration(n) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateDays returns n consecutive calendar days starting at start truncated to midnight UTC
func GenerateDays(n int, start time.Time) []time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, first.AddDate(0, 0, i))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) SetConst(t []time.Time, val float64, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

func (s Series) MaskWithWeekend(t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			s[i] = 0.0
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrend returns a linear ramp starting at 0 on the first time point and growing by
// slope per day.
func GenerateTrend(t []time.Time, slope float64) Series {
	y := make([]float64, len(t))
	if len(t) == 0 {
		return Series(y)
	}
	for i := range t {
		y[i] = slope * t[i].Sub(t[0]).Hours() / 24.0
	}
	return Series(y)
}

// GenerateNoise draws gaussian noise with the given scale. A nil source uses the global
// generator.
func GenerateNoise(t []time.Time, scale float64, src *rand.Rand) Series {
	y := make([]float64, len(t))
	for i := range t {
		if src == nil {
			y[i] = rand.NormFloat64() * scale
			continue
		}
		y[i] = src.NormFloat64() * scale
	}
	return Series(y)
}

func GenerateChange(t []time.Time, chpt time.Time, bias, slope float64) Series {
	n := len(t)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if t[i].After(chpt) || t[i].Equal(chpt) {
			jump := bias + slope*t[i].Sub(chpt).Hours()/24.0
			y[i] = jump
		}
	}
	return Series(y)
}
