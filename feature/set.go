package feature

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Set stores feature columns in insertion order. All columns share the same number of
// rows; shorter columns are zero padded.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Len returns the number of features
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Rows returns the number of observations of every feature
func (s *Set) Rows() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Set stores the data of a feature, replacing any previous data of the same feature
func (s *Set) Set(f Feature, data []float64) *Set {
	if s.set == nil {
		s.set = make(map[string][]float64)
	}

	if len(data) > s.m {
		s.m = len(data)
		for k, v := range s.set {
			s.set[k] = pad(v, s.m)
		}
	}

	key := f.String()
	if _, exists := s.set[key]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[key] = pad(data, s.m)
	return s
}

func pad(data []float64, m int) []float64 {
	out := make([]float64, m)
	copy(out, data)
	return out
}

func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.set[f.String()]
	return data, exists
}

func (s *Set) Del(f Feature) *Set {
	key := f.String()
	if _, exists := s.set[key]; !exists {
		return s
	}
	delete(s.set, key)
	for i, l := range s.labels {
		if l.String() == key {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			break
		}
	}
	return s
}

// Update sets every feature of other onto s
func (s *Set) Update(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, l := range other.labels {
		s.Set(l, other.set[l.String()])
	}
	return s
}

func (s *Set) Copy() *Set {
	next := NewSet()
	next.Update(s)
	next.m = s.m
	return next
}

// Labels returns the features in insertion order
func (s *Set) Labels() *Labels {
	if s == nil {
		return NewLabels(nil)
	}
	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	return NewLabels(labels)
}

// RemoveZeroOnlyFeatures drops features that never take a non zero value
func (s *Set) RemoveZeroOnlyFeatures() {
	for _, l := range s.Labels().Labels() {
		data := s.set[l.String()]
		if len(data) == 0 || (floats.Min(data) == 0 && floats.Max(data) == 0) {
			s.Del(l)
		}
	}
}

// Matrix returns the m x n design matrix of the set, with a leading column of ones when
// intercept is true.
func (s *Set) Matrix(intercept bool) *mat.Dense {
	n := s.Len()
	if intercept {
		n++
	}
	if s.Rows() == 0 || n == 0 {
		return nil
	}

	m := s.m
	obs := make([]float64, m*n)

	featNum := 0
	if intercept {
		for i := 0; i < m; i++ {
			obs[n*i] = 1.0
		}
		featNum++
	}

	for _, label := range s.labels {
		data := s.set[label.String()]
		for i := 0; i < m; i++ {
			obs[n*i+featNum] = data[i]
		}
		featNum++
	}
	return mat.NewDense(m, n, obs)
}
