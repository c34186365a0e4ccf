// Package feature names the regressors of a decomposition model and stores their
// values column by column.
package feature

import "strings"

type FeatureType int

const (
	FeatureTypeGrowth FeatureType = iota
	FeatureTypeChangepoint
	FeatureTypeSeasonality
	FeatureTypeEvent
	FeatureTypeTime
)

func (f FeatureType) String() string {
	switch f {
	case FeatureTypeGrowth:
		return "growth"
	case FeatureTypeChangepoint:
		return "changepoint"
	case FeatureTypeSeasonality:
		return "seasonality"
	case FeatureTypeEvent:
		return "event"
	case FeatureTypeTime:
		return "time"
	}
	return "unknown"
}

// Feature is a labeled regressor. String must be unique within a Set.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

func get(f Feature, label string) (string, bool) {
	val, exists := f.Decode()[strings.ToLower(label)]
	return val, exists
}
