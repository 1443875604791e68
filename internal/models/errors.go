package models

import (
	"fmt"
)

// RowError reports a structural problem with one CSV data row. Row is the position a person
// sees in a spreadsheet: the header is row 1, the first data row is row 2.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d: invalid %s value %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
