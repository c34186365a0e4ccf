package feature

import "github.com/goccy/go-json"

// Labels tracks a slice of features and their index locations that match up
// with the ordering of the coefficients assigned to each of these features.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l.String()] = i
	}
	return &Labels{
		labels: labels,
		idx:    idx,
	}
}

func (f *Labels) Len() int {
	if f == nil {
		return 0
	}
	return len(f.labels)
}

func (f *Labels) Labels() []Feature {
	labels := make([]Feature, len(f.labels))
	copy(labels, f.labels)
	return labels
}

func (f *Labels) Index(label Feature) (int, bool) {
	if idx, exists := f.idx[label.String()]; exists {
		return idx, exists
	}
	return -1, false
}

// MarshalJSON encodes the labels as a list of decoded label maps tagged with their type
func (f *Labels) MarshalJSON() ([]byte, error) {
	out := make([]map[string]string, 0, f.Len())
	if f == nil {
		return json.Marshal(out)
	}
	for _, l := range f.labels {
		m := l.Decode()
		m["type"] = l.Type().String()
		out = append(out, m)
	}
	return json.Marshal(out)
}
