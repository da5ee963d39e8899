// ABOUTME: Terminal rendering of report tables and summaries.
// ABOUTME: Column alignment uses padRight; headings use lipgloss styles.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/harperreed/sleepdash/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// missing is shown for cells without a value.
const missing = "-"

func printTitle(out io.Writer, title string) {
	_, _ = fmt.Fprintln(out, titleStyle.Render(title))
	_, _ = fmt.Fprintln(out)
}

// printTable writes a table with left-aligned, space-padded columns.
func printTable(out io.Writer, t storage.Table) {
	printTitle(out, t.Title)
	if len(t.Rows) == 0 {
		_, _ = fmt.Fprintln(out, "No nights in range.")
		return
	}

	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for r, row := range t.Rows {
		cells[r] = make([]string, len(row))
		for c, v := range row {
			s := storage.FormatCell(v)
			if s == "" {
				s = missing
			}
			cells[r][c] = s
			if c < len(widths) && len(s) > widths[c] {
				widths[c] = len(s)
			}
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = padRight(h, widths[i])
	}
	_, _ = bold.Fprintln(out, strings.TrimRight(strings.Join(header, "  "), " "))

	for _, row := range cells {
		parts := make([]string, len(row))
		for c, s := range row {
			parts[c] = colorize(padRight(s, widths[c]), s)
		}
		_, _ = fmt.Fprintln(out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// colorize tints night-score cells; padded is the already padded text of raw.
func colorize(padded, raw string) string {
	switch raw {
	case "Good", "Great":
		return color.GreenString(padded)
	case "Okay":
		return color.YellowString(padded)
	case "Bad", "Very Bad", "Terrible":
		return color.RedString(padded)
	case missing:
		return color.New(color.Faint).Sprint(padded)
	}
	return padded
}

// printPanel writes labelled lines inside a rounded box.
func printPanel(out io.Writer, title string, lines [][2]string) {
	width := 0
	for _, l := range lines {
		if len(l[0]) > width {
			width = len(l[0])
		}
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	for _, l := range lines {
		sb.WriteString("\n")
		sb.WriteString(padRight(l[0], width+2) + l[1])
	}
	_, _ = fmt.Fprintln(out, panelStyle.Render(sb.String()))
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
