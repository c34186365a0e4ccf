package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrNoHeader = errors.New("csv input has no header row")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Delimiter rune // field delimiter, defaults to ','
	Comment   rune // lines starting with this rune are skipped, 0 disables
	SkipRows  int  // number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter: ',',
	}
}

// LoadCSV reads a header row followed by data rows. Every cell is kept as a trimmed
// string; parsing into dates and numbers happens during aggregation.
func LoadCSV(r io.Reader, opt *CSVOptions) (*Frame, error) {
	if opt == nil {
		opt = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if opt.Delimiter != 0 {
		reader.Comma = opt.Delimiter
	}
	reader.Comment = opt.Comment

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("unable to skip row %d, %w", i, err)
		}
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	var rows [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", len(rows)+1, err)
		}
		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}

	return NewFrame(columns, rows)
}
