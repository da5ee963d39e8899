// ABOUTME: Error types raised while reading the wearable CSV exports.
// ABOUTME: SchemaError names a missing column, ParseError a bad cell.
package ingest

import "fmt"

// SchemaError reports a required column absent from an uploaded file.
type SchemaError struct {
	File   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.File, e.Column)
}

// ParseError reports a cell or row that could not be read as its expected type.
type ParseError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: invalid value %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
