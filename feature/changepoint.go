package feature

import "fmt"

type ChangepointComp string

const (
	ChangepointCompBias  ChangepointComp = "bias"
	ChangepointCompSlope ChangepointComp = "slope"
)

// Changepoint is a jump (bias) or a trend change (slope) starting at a named point in time
type Changepoint struct {
	Name            string          `json:"name"`
	ChangepointComp ChangepointComp `json:"changepoint_component"`
}

func NewChangepoint(name string, comp ChangepointComp) *Changepoint {
	return &Changepoint{name, comp}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s_%s", c.Name, c.ChangepointComp)
}

func (c Changepoint) Get(label string) (string, bool) {
	return get(c, label)
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	return map[string]string{
		"name":                  c.Name,
		"changepoint_component": string(c.ChangepointComp),
	}
}
