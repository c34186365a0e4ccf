package timedataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/salesforecaster/go-salesforecaster/dataset"
	"github.com/shopspring/decimal"
)

var (
	ErrParse            = errors.New("parse error")
	ErrUnsupportedType  = errors.New("unsupported value type")
	ErrNonFiniteValue   = errors.New("value is not finite")
	ErrUnrecognizedDate = errors.New("unrecognized date format")
)

// DefaultDateLayouts are tried in order after any caller supplied layouts
var DefaultDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// ParseError reports a cell that could not be read as a date or a number
type ParseError struct {
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse %q at row %d value %v, %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches ErrParse so callers can test with errors.Is
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Aggregate sums every observation of valueCol sharing the same calendar date of dateCol
// and returns one point per distinct date sorted ascending. Sums are computed with
// decimal arithmetic so each daily value equals the exact total of its observations.
func Aggregate(frame *dataset.Frame, dateCol, valueCol string, layouts ...string) (*TimeDataset, error) {
	dateIdx, err := frame.ColumnIndex(dateCol)
	if err != nil {
		return nil, err
	}
	valueIdx, err := frame.ColumnIndex(valueCol)
	if err != nil {
		return nil, err
	}
	if frame.Len() == 0 {
		return nil, ErrNoTrainingData
	}

	layouts = append(append([]string{}, layouts...), DefaultDateLayouts...)

	sums := make(map[time.Time]decimal.Decimal)
	for i, row := range frame.Rows {
		if dateIdx >= len(row) || valueIdx >= len(row) {
			return nil, fmt.Errorf("row %d, %w", i, dataset.ErrRowWidth)
		}
		day, err := ParseDate(row[dateIdx], layouts...)
		if err != nil {
			return nil, &ParseError{Row: i, Column: dateCol, Value: row[dateIdx], Err: err}
		}
		val, err := ParseValue(row[valueIdx])
		if err != nil {
			return nil, &ParseError{Row: i, Column: valueCol, Value: row[valueIdx], Err: err}
		}
		sums[day] = sums[day].Add(val)
	}

	t := make([]time.Time, 0, len(sums))
	for day := range sums {
		t = append(t, day)
	}
	sort.Slice(t, func(i, j int) bool {
		return t[i].Before(t[j])
	})

	y := make([]float64, len(t))
	for i, day := range t {
		y[i] = sums[day].InexactFloat64()
	}
	return NewUnivariateDataset(t, y)
}

// ParseDate converts a date-like value into its calendar date at midnight UTC. The
// calendar date is taken from the value's own location.
func ParseDate(v any, layouts ...string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	var ts time.Time
	switch val := v.(type) {
	case time.Time:
		ts = val
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("nil time, %w", ErrUnsupportedType)
		}
		ts = *val
	case string:
		parsed, err := parseDateString(val, layouts)
		if err != nil {
			return time.Time{}, err
		}
		ts = parsed
	case []byte:
		parsed, err := parseDateString(string(val), layouts)
		if err != nil {
			return time.Time{}, err
		}
		ts = parsed
	default:
		return time.Time{}, fmt.Errorf("%T, %w", v, ErrUnsupportedType)
	}

	if ts.IsZero() {
		return time.Time{}, fmt.Errorf("zero time, %w", ErrUnrecognizedDate)
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func parseDateString(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnrecognizedDate)
}

// ParseValue converts a numeric-like value into a decimal
func ParseValue(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int8:
		return decimal.NewFromInt(int64(val)), nil
	case int16:
		return decimal.NewFromInt(int64(val)), nil
	case int32:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case uint:
		return fromUint(uint64(val)), nil
	case uint8:
		return fromUint(uint64(val)), nil
	case uint16:
		return fromUint(uint64(val)), nil
	case uint32:
		return fromUint(uint64(val)), nil
	case uint64:
		return fromUint(val), nil
	case json.Number:
		return decimal.NewFromString(val.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(val))
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(val)))
	}
	return decimal.Decimal{}, fmt.Errorf("%T, %w", v, ErrUnsupportedType)
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, ErrNonFiniteValue
	}
	return decimal.NewFromFloat(f), nil
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}
