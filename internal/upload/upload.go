// Package upload holds the pieces shared by the rep and territory bulk
// reconcilers: per-row diagnostics and the source-row numbering rule.
package upload

// RowError labels one rejected row with its 1-based source row number.
// Row 0 means the error is not attributable to a specific input row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowNumber converts a 0-based data-row index to the row number shown to the
// user: +1 for the header line, +1 for 1-based counting. The first data row
// is row 2.
func RowNumber(index int) int {
	return index + 2
}
