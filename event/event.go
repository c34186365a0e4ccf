// Package event turns calendar holidays into day windows that can be modeled as
// indicator features.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrStartAfterEnd = errors.New("event start time is after end time")
	ErrUnsetTime     = errors.New("unset event start or end time")
	ErrNoEventName   = errors.New("no event name")
)

// Event represents a time span [Start, End) to model separately
type Event struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// Mask returns 1 for every time point inside the event and 0 otherwise
func (e Event) Mask(t []time.Time) []float64 {
	mask := make([]float64, len(t))
	for i, tp := range t {
		if !tp.Before(e.Start) && tp.Before(e.End) {
			mask[i] = 1.0
		}
	}
	return mask
}

// RetailHolidays are the US holidays with the largest effect on daily sales
func RetailHolidays() []*cal.Holiday {
	return []*cal.Holiday{
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}
}

// Name converts a holiday name into a feature friendly name
func Name(hol *cal.Holiday) string {
	return strings.ReplaceAll(hol.Name, " ", "_")
}

// Holiday returns one event per year in which the holiday falls within [start, end]. Each
// event covers the calendar day of the holiday in UTC widened by daysBefore and daysAfter.
// Every year shares the same event name.
func Holiday(hol *cal.Holiday, start, end time.Time, daysBefore, daysAfter int) []Event {
	first := midnight(start)
	last := midnight(end)

	events := []Event{}
	for i := first.Year(); i <= last.Year(); i++ {
		actual, _ := hol.Calc(i)
		if actual.IsZero() {
			continue
		}
		day := midnight(actual)
		if day.Before(first) || day.After(last) {
			continue
		}
		events = append(events, Event{
			Name:  Name(hol),
			Start: day.AddDate(0, 0, -daysBefore),
			End:   day.AddDate(0, 0, 1+daysAfter),
		})
	}
	return events
}

// Holidays gathers the events of every holiday keyed by event name
func Holidays(hols []*cal.Holiday, start, end time.Time, daysBefore, daysAfter int) map[string][]Event {
	res := make(map[string][]Event, len(hols))
	for _, hol := range hols {
		events := Holiday(hol, start, end, daysBefore, daysAfter)
		if len(events) == 0 {
			continue
		}
		res[Name(hol)] = events
	}
	return res
}

// MaskAll returns the union mask of every event
func MaskAll(events []Event, t []time.Time) []float64 {
	mask := make([]float64, len(t))
	for _, e := range events {
		for i, v := range e.Mask(t) {
			if v > 0 {
				mask[i] = 1.0
			}
		}
	}
	return mask
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
