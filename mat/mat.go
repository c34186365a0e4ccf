// Package mat holds small constructors for gonum matrices used by the regressions.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrEmptyArray  = errors.New("empty array")
)

// NewDenseFromArray builds a row major dense matrix from a slice of rows
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if m == 0 || n <= 0 {
		return nil, ErrEmptyArray
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewColVector returns y as an m x 1 matrix sharing no memory with y
func NewColVector(y []float64) (*mat.Dense, error) {
	if len(y) == 0 {
		return nil, ErrEmptyArray
	}
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data), nil
}
