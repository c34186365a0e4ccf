package feature

import "fmt"

const (
	TimeEpoch = "epoch"
)

// Time is a feature derived directly from the timestamps, e.g. the normalized epoch
type Time struct {
	Name string `json:"name"`
}

func NewTime(name string) *Time {
	return &Time{name}
}

func (t Time) String() string {
	return fmt.Sprintf("tfeat_%s", t.Name)
}

func (t Time) Get(label string) (string, bool) {
	return get(t, label)
}

func (t Time) Type() FeatureType {
	return FeatureTypeTime
}

func (t Time) Decode() map[string]string {
	return map[string]string{"name": t.Name}
}
