// Package csvrows turns a CSV stream into ordered rows keyed by the header
// line, the shape the upload reconcilers consume. Position in the returned
// slice determines the user-facing row number, so order is preserved exactly.
package csvrows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row maps a header name to the raw cell value for one data line.
type Row map[string]string

// ErrNoHeader is returned for an empty input with no header line.
var ErrNoHeader = errors.New("csv input has no header row")

// Read parses CSV from r using the first record as the header. Header names
// are trimmed; cell values are passed through untouched so downstream
// validation sees exactly what the file contained. Short records leave the
// trailing columns absent from the row map.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
