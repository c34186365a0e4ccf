package feature

import "fmt"

const (
	GrowthIntercept = "intercept"
	GrowthLinear    = "linear"
)

// Growth is the trend component of the model
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

func Intercept() *Growth {
	return NewGrowth(GrowthIntercept)
}

func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

// Get returns the value of an arbitrary label and whether the label exists
func (g Growth) Get(label string) (string, bool) {
	return get(g, label)
}

func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

func (g Growth) Decode() map[string]string {
	return map[string]string{"name": g.Name}
}
