// ABOUTME: CLI command for exporting computed reports.
// ABOUTME: Supports JSON, YAML, Markdown, XLSX and SQLite formats.
package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOutput string
	exportStart  string
	exportEnd    string
)

var exportCmd = &cobra.Command{
	Use:   "export [format]",
	Short: "Export every report view",
	Long: `Export the annual, monthly, weekday, score share and daily views together.

FORMATS:

  json       Full JSON export
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)
  xlsx       Excel workbook, one sheet per view
  sqlite     SQLite database, one table per view

OPTIONS:

  --output, -o   Write to this file. JSON, YAML and Markdown go to stdout
                 without it; XLSX and SQLite go to the configured export_dir.
  --start, --end Date range for the weekday and daily views (YYYY-MM-DD)

EXAMPLES:

  sleepdash export json                       # Print JSON
  sleepdash export -o sleep.xlsx              # Format from the extension
  sleepdash export markdown -o sleep.md       # Save Markdown tables
  sleepdash export xlsx                       # Workbook in export_dir
  sleepdash export sqlite -o sleep.db --start 2024-01-01`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown", "xlsx", "sqlite"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var format storage.Format
		var err error
		switch {
		case len(args) == 1:
			format, err = storage.ParseFormat(args[0])
		case exportOutput != "":
			format, err = storage.FormatFromPath(exportOutput)
		default:
			err = errors.New("format required: json, yaml, markdown, xlsx or sqlite")
		}
		if err != nil {
			return err
		}
		for _, d := range []string{exportStart, exportEnd} {
			if err := analytics.ValidateDate(d); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		ds, err := loadDataset(out)
		if err != nil || ds == nil {
			return err
		}

		report, err := storage.BuildReport(ds, storage.ReportOptions{Start: exportStart, End: exportEnd})
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		path := exportOutput
		if path == "" {
			switch format {
			case storage.FormatJSON, storage.FormatYAML, storage.FormatMarkdown:
				return printExport(cmd, report, format)
			default:
				name := fmt.Sprintf("sleepdash-%s%s", time.Now().Format("20060102-150405"), format.Ext())
				path = filepath.Join(cfg.GetExportDir(), name)
			}
		}

		if err := storage.WriteFile(path, report, format); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		logger.Info("report exported", zap.String("path", path), zap.String("format", string(format)))
		_, _ = color.New(color.FgGreen).Fprintf(out, "✓ Exported to %s\n", path)
		return nil
	},
}

func printExport(cmd *cobra.Command, report *storage.Report, format storage.Format) error {
	var data []byte
	var err error
	switch format {
	case storage.FormatJSON:
		data, err = storage.ExportJSON(report)
	case storage.FormatYAML:
		data, err = storage.ExportYAML(report)
	default:
		data = []byte(storage.ExportMarkdown(report))
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "first date for weekday and daily views (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "last date for weekday and daily views (YYYY-MM-DD)")
	rootCmd.AddCommand(exportCmd)
}
