// ABOUTME: Export of computed reports to files.
// ABOUTME: Supports JSON, YAML, Markdown, XLSX and SQLite formats.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
	FormatSQLite   Format = "sqlite"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatXLSX, FormatSQLite}

// ParseFormat validates a format name. Common aliases are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown format: %q (use json, yaml, markdown, xlsx or sqlite)", s)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatXLSX:
		return ".xlsx"
	case FormatSQLite:
		return ".db"
	default:
		return ".json"
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q without an extension", path)
	}
	return ParseFormat(ext)
}

// ExportJSON renders the report as indented JSON.
func ExportJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ExportYAML renders the report as YAML.
func ExportYAML(r *Report) ([]byte, error) {
	return yaml.Marshal(r)
}

// ExportMarkdown renders every report section as a Markdown table.
func ExportMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Sleep Report - %s\n\n", r.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Nights analysed: %d\n\n", r.Nights))
	if r.Start != "" || r.End != "" {
		sb.WriteString(fmt.Sprintf("Weekday and daily range: %s to %s\n\n", orOpen(r.Start), orOpen(r.End)))
	}

	for _, t := range r.Tables() {
		sb.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
		if len(t.Rows) == 0 {
			sb.WriteString("_No data._\n\n")
			continue
		}
		writeMarkdownTable(&sb, t)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeMarkdownTable(sb *strings.Builder, t Table) {
	sb.WriteString("| " + strings.Join(t.Header, " | ") + " |\n")
	seps := make([]string, len(t.Header))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("|" + strings.Join(seps, "|") + "|\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// FormatCell renders a table cell as text. Missing values render empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}

// WriteFile writes the report to path in the given format, creating parent
// directories as needed.
func WriteFile(path string, r *Report, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	switch format {
	case FormatJSON:
		data, err := ExportJSON(r)
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		return os.WriteFile(path, data, 0600)
	case FormatYAML:
		data, err := ExportYAML(r)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		return os.WriteFile(path, data, 0600)
	case FormatMarkdown:
		return os.WriteFile(path, []byte(ExportMarkdown(r)), 0600)
	case FormatXLSX:
		return writeXLSXFile(path, r)
	case FormatSQLite:
		return ExportSQLite(path, r)
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

func writeXLSXFile(path string, r *Report) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create workbook file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ExportXLSX(f, r)
}
