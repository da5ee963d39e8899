// ABOUTME: Generic header-indexed CSV table reader with typed cell accessors.
// ABOUTME: Missing-value tokens follow the spreadsheet conventions of the exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// naValues are cell contents treated as missing, compared case-insensitively.
var naValues = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"nan":  true,
	"-nan": true,
	"null": true,
	"none": true,
}

var (
	errNotBool   = errors.New("not a boolean")
	errNotFinite = errors.New("not a finite number")
	errNegative  = errors.New("must not be negative")
)

// table is a parsed CSV file with its header resolved to column indexes.
type table struct {
	file   string
	header map[string]int
	rows   [][]string
	lines  []int
}

// readTable parses r as CSV and verifies every required column is present.
func readTable(file string, r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: file, Line: 1, Err: errors.New("empty file: header row required")}
		}
		return nil, wrapCSVError(file, err)
	}

	t := &table{file: file, header: make(map[string]int, len(head))}
	for i, name := range head {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := t.header[name]; !dup {
			t.header[name] = i
		}
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			return nil, &SchemaError{File: file, Column: col}
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(file, err)
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func wrapCSVError(file string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{File: file, Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read %s: %w", file, err)
}

// cell returns the raw value of column col in row i. Short rows read as
// empty cells.
func (t *table) cell(i int, col string) string {
	idx := t.header[col]
	row := t.rows[i]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isNA(s string) bool {
	return naValues[strings.ToLower(strings.TrimSpace(s))]
}

// number reads a nullable numeric cell.
func (t *table) number(i int, col string) (*float64, error) {
	raw := t.cell(i, col)
	if isNA(raw) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &ParseError{File: t.file, Line: t.lines[i], Column: col, Value: raw, Err: err}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, &ParseError{File: t.file, Line: t.lines[i], Column: col, Value: raw, Err: errNotFinite}
	}
	return &v, nil
}

// boolean reads a nullable boolean cell written as true/false in any case.
func (t *table) boolean(i int, col string) (*bool, error) {
	raw := t.cell(i, col)
	if isNA(raw) {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil, &ParseError{File: t.file, Line: t.lines[i], Column: col, Value: raw, Err: errNotBool}
	}
	return &v, nil
}
