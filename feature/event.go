package feature

import "fmt"

// Event is an indicator of a named day or window such as a holiday
type Event struct {
	Name string `json:"name"`
}

func NewEvent(name string) *Event {
	return &Event{name}
}

func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

func (e Event) Get(label string) (string, bool) {
	return get(e, label)
}

func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

func (e Event) Decode() map[string]string {
	return map[string]string{"name": e.Name}
}
