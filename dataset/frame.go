// Package dataset holds the raw tabular input of a forecast: named columns and rows of
// loosely typed values as they arrive from a caller or a CSV file.
package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrSchema          = errors.New("schema error")
	ErrRowWidth        = errors.New("row width does not match number of columns")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrNoColumns       = errors.New("no columns")
)

// SchemaError reports a column that the caller asked for but the frame does not carry.
type SchemaError struct {
	Column  string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q not found, available columns %v", e.Column, e.Columns)
}

// Is matches ErrSchema so callers can test with errors.Is
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Frame is a row oriented table. Each row must have exactly one value per column.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// NewFrame validates the column names and the width of every row
func NewFrame(columns []string, rows [][]any) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, exists := seen[c]; exists {
			return nil, fmt.Errorf("column %q, %w", c, ErrDuplicateColumn)
		}
		seen[c] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values but expected %d, %w", i, len(row), len(columns), ErrRowWidth)
		}
	}

	return &Frame{
		Columns: columns,
		Rows:    rows,
	}, nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// ColumnIndex returns the position of the named column
func (f *Frame) ColumnIndex(name string) (int, error) {
	if f == nil {
		return -1, &SchemaError{Column: name}
	}
	for i, c := range f.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, &SchemaError{Column: name, Columns: f.Columns}
}

// Column returns the values of a single column in row order
func (f *Frame) Column(name string) ([]any, error) {
	idx, err := f.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	col := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("row %d, %w", i, ErrRowWidth)
		}
		col[i] = row[idx]
	}
	return col, nil
}

// Copy returns a frame with its own column and row slices. Cell values are copied by
// value.
func (f *Frame) Copy() *Frame {
	if f == nil {
		return nil
	}
	cols := make([]string, len(f.Columns))
	copy(cols, f.Columns)

	rows := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		r := make([]any, len(row))
		copy(r, row)
		rows[i] = r
	}
	return &Frame{
		Columns: cols,
		Rows:    rows,
	}
}
