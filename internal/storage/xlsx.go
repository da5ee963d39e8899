// ABOUTME: XLSX workbook export with one sheet per report section.
// ABOUTME: Built with excelize; header row is bold and shaded.
package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetNames maps table names to worksheet titles (max 31 chars).
var sheetNames = map[string]string{
	"annual":          "Annual",
	"monthly":         "Monthly",
	"weekday":         "Weekday",
	"shares_by_year":  "Shares by Year",
	"shares_by_month": "Shares by Month",
	"daily":           "Daily",
}

// SheetName returns the worksheet title used for a table.
func SheetName(t Table) string {
	if name, ok := sheetNames[t.Name]; ok {
		return name
	}
	return t.Name
}

// ExportXLSX writes the report as an XLSX workbook to w.
func ExportXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range r.Tables() {
		sheet := SheetName(t)
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, sheet, t, headerStyle); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	for col, header := range t.Header {
		c, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, c, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", c, err)
		}
		if err := f.SetCellStyle(sheet, c, c, headerStyle); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("convert column number: %w", err)
		}
		width := float64(len(header)) + 4
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for rowIdx, row := range t.Rows {
		for colIdx, v := range row {
			if v == nil {
				continue
			}
			c, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, c, v); err != nil {
				return fmt.Errorf("set cell %s on %s: %w", c, sheet, err)
			}
		}
	}

	if len(t.Rows) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header on %s: %w", sheet, err)
		}
	}
	return nil
}
