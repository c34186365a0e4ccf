package feature

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// Seasonality is one Fourier term of a periodic component
type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Order       int         `json:"order"`
}

func NewSeasonality(name string, fcomp FourierComp, order int) *Seasonality {
	return &Seasonality{name, fcomp, order}
}

func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

func (s Seasonality) Get(label string) (string, bool) {
	return get(s, label)
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

func (s Seasonality) Decode() map[string]string {
	return map[string]string{
		"name":              s.Name,
		"fourier_component": string(s.FourierComp),
		"order":             strconv.Itoa(s.Order),
	}
}

// UnmarshalJSON accepts the decoded label map where the order is a string
func (s *Seasonality) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name        string      `json:"name"`
		FourierComp FourierComp `json:"fourier_component"`
		Order       string      `json:"order"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	order, err := strconv.Atoi(labelStr.Order)
	if err != nil {
		return err
	}
	s.Name = labelStr.Name
	s.FourierComp = labelStr.FourierComp
	s.Order = order
	return nil
}

// Generate evaluates the Fourier term at each time point. Time points and period share
// the same unit.
func (s Seasonality) Generate(t []float64, period float64) []float64 {
	res := make([]float64, len(t))
	omega := 2.0 * math.Pi * float64(s.Order) / period
	for i, tp := range t {
		switch s.FourierComp {
		case FourierCompSin:
			res[i] = math.Sin(omega * tp)
		case FourierCompCos:
			res[i] = math.Cos(omega * tp)
		}
	}
	return res
}
