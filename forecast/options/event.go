package options

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/salesforecaster/go-salesforecaster/event"
	"github.com/salesforecaster/go-salesforecaster/feature"
	"github.com/salesforecaster/go-salesforecaster/forecast/util"
)

// HolidayOptions models the days around public holidays as indicator features. Every
// year of a holiday shares one feature so a holiday observed in the training window carries
// its effect into the forecast.
type HolidayOptions struct {
	Enabled    bool `json:"enabled"`
	DaysBefore int  `json:"days_before"`
	DaysAfter  int  `json:"days_after"`

	// Holidays overrides the default retail holiday calendar
	Holidays []*cal.Holiday `json:"-"`
}

func NewDefaultHolidayOptions() HolidayOptions {
	return HolidayOptions{}
}

func (h HolidayOptions) holidays() []*cal.Holiday {
	if len(h.Holidays) > 0 {
		return h.Holidays
	}
	return event.RetailHolidays()
}

func (h HolidayOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if !h.Enabled {
		_, err := fmt.Fprintf(w, "%s%sHolidays: None\n", prefix, util.IndentExpand(indent, indentGrowth))
		return err
	}
	names := make([]string, 0, len(h.holidays()))
	for _, hol := range h.holidays() {
		names = append(names, event.Name(hol))
	}
	if _, err := fmt.Fprintf(w, "%s%sHolidays: %s\n", prefix, util.IndentExpand(indent, indentGrowth), strings.Join(names, ", ")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sBefore: %d days, After: %d days\n",
		prefix, util.IndentExpand(indent, indentGrowth+1), h.DaysBefore, h.DaysAfter)
	return err
}

// GenerateFeatures returns one event feature per holiday falling within the time points
func (h HolidayOptions) GenerateFeatures(t []time.Time) *feature.Set {
	feat := feature.NewSet()
	if !h.Enabled || len(t) == 0 {
		return feat
	}

	start, end := t[0], t[0]
	for _, tp := range t {
		if tp.Before(start) {
			start = tp
		}
		if tp.After(end) {
			end = tp
		}
	}
	// widen the search so windows of holidays just outside the range still overlap
	start = start.AddDate(0, 0, -h.DaysAfter)
	end = end.AddDate(0, 0, h.DaysBefore)

	hols := h.holidays()
	events := event.Holidays(hols, start, end, h.DaysBefore, h.DaysAfter)
	for _, hol := range hols {
		name := event.Name(hol)
		if _, exists := events[name]; !exists {
			continue
		}
		feat.Set(feature.NewEvent(name), event.MaskAll(events[name], t))
	}
	return feat
}
