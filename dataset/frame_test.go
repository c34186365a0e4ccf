package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	testData := map[string]struct {
		columns []string
		rows    [][]any
		err     error
	}{
		"valid": {
			columns: []string{"Date", "Revenue"},
			rows:    [][]any{{"2024-01-01", 100.0}},
		},
		"no rows": {
			columns: []string{"Date", "Revenue"},
		},
		"no columns": {
			err: ErrNoColumns,
		},
		"duplicate column": {
			columns: []string{"Date", "Date"},
			err:     ErrDuplicateColumn,
		},
		"short row": {
			columns: []string{"Date", "Revenue"},
			rows:    [][]any{{"2024-01-01"}},
			err:     ErrRowWidth,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := NewFrame(td.columns, td.rows)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, len(td.rows), f.Len())
		})
	}
}

func TestFrameColumn(t *testing.T) {
	f, err := NewFrame(
		[]string{"Date", "Revenue"},
		[][]any{
			{"2024-01-01", 100.0},
			{"2024-01-02", 80.0},
		},
	)
	require.Nil(t, err)

	col, err := f.Column("Revenue")
	require.Nil(t, err)
	assert.Equal(t, []any{100.0, 80.0}, col)

	_, err = f.Column("Sales")
	assert.ErrorIs(t, err, ErrSchema)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Sales", schemaErr.Column)
}

func TestFrameCopy(t *testing.T) {
	f, err := NewFrame([]string{"Date", "Revenue"}, [][]any{{"2024-01-01", 100.0}})
	require.Nil(t, err)

	cp := f.Copy()
	cp.Rows[0][1] = 5.0
	cp.Columns[0] = "Day"

	assert.Equal(t, 100.0, f.Rows[0][1])
	assert.Equal(t, "Date", f.Columns[0])
}

func TestLoadCSV(t *testing.T) {
	testData := map[string]struct {
		input    string
		opt      *CSVOptions
		columns  []string
		rows     [][]any
		errMatch string
	}{
		"basic": {
			input:   "Date,Revenue\n2024-01-01,100\n2024-01-01, 50\n2024-01-02,80\n",
			columns: []string{"Date", "Revenue"},
			rows: [][]any{
				{"2024-01-01", "100"},
				{"2024-01-01", "50"},
				{"2024-01-02", "80"},
			},
		},
		"quoted header and semicolon": {
			input:   "\"Date\";\"Revenue\"\n2024-01-01;1.5\n",
			opt:     &CSVOptions{Delimiter: ';'},
			columns: []string{"Date", "Revenue"},
			rows:    [][]any{{"2024-01-01", "1.5"}},
		},
		"skip preamble": {
			input:   "exported by pos\nDate,Revenue\n2024-01-01,3\n",
			opt:     &CSVOptions{Delimiter: ',', SkipRows: 1},
			columns: []string{"Date", "Revenue"},
			rows:    [][]any{{"2024-01-01", "3"}},
		},
		"empty": {
			input:    "",
			errMatch: ErrNoHeader.Error(),
		},
		"ragged": {
			input:    "Date,Revenue\n2024-01-01\n",
			errMatch: ErrRowWidth.Error(),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := LoadCSV(strings.NewReader(td.input), td.opt)
			if td.errMatch != "" {
				assert.ErrorContains(t, err, td.errMatch)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.columns, f.Columns)
			assert.Equal(t, td.rows, f.Rows)
		})
	}
}
