package timedataset

import (
	"math"
	"time"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// Span is the duration between the first and last time point
func (t TimeSlice) Span() time.Duration {
	if len(t) < 2 {
		return 0
	}
	return t.EndTime().Sub(t.StartTime())
}

// EstimateFreq returns the most common delta between consecutive points. Ties pick the
// smallest delta.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Extend returns n time points after the end time spaced by freq. Daily frequencies step
// by calendar day so the points stay on midnight.
func (t TimeSlice) Extend(n int, freq time.Duration) []time.Time {
	if len(t) == 0 || n <= 0 {
		return nil
	}
	last := t.EndTime()
	out := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		if freq == DefaultFreq {
			out = append(out, last.AddDate(0, 0, i))
			continue
		}
		out = append(out, last.Add(time.Duration(i)*freq))
	}
	return out
}
