// ABOUTME: Report bundle computed from a dataset and its flat table projection.
// ABOUTME: Tables feed the Markdown, XLSX and SQLite exporters.
package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/models"
)

// ReportVersion is bumped when the export layout changes.
const ReportVersion = "1.0"

// ReportOptions narrows the weekday and daily sections to a date range.
// Empty bounds are open.
type ReportOptions struct {
	Start string
	End   string
}

// Report is the full set of computed views exported together.
type Report struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Tool       string    `json:"tool" yaml:"tool"`
	Nights     int       `json:"nights" yaml:"nights"`
	Start      string    `json:"start,omitempty" yaml:"start,omitempty"`
	End        string    `json:"end,omitempty" yaml:"end,omitempty"`

	Annual        analytics.Overview   `json:"annual" yaml:"annual"`
	Monthly       analytics.Overview   `json:"monthly" yaml:"monthly"`
	Weekday       analytics.Overview   `json:"weekday" yaml:"weekday"`
	SharesByYear  []analytics.ShareRow `json:"score_shares_by_year" yaml:"score_shares_by_year"`
	SharesByMonth []analytics.ShareRow `json:"score_shares_by_month" yaml:"score_shares_by_month"`
	Daily         []analytics.DailyRow `json:"daily" yaml:"daily"`
}

// BuildReport computes every view of ds.
func BuildReport(ds *analytics.Dataset, opts ReportOptions) (*Report, error) {
	weekday, err := ds.WeekdayOverview(opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("weekday overview: %w", err)
	}
	byYear, err := ds.ScoreShares(analytics.ByYear)
	if err != nil {
		return nil, fmt.Errorf("score shares by year: %w", err)
	}
	byMonth, err := ds.ScoreShares(analytics.ByYearMonth)
	if err != nil {
		return nil, fmt.Errorf("score shares by month: %w", err)
	}
	daily, err := ds.Daily(opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("daily metrics: %w", err)
	}

	return &Report{
		Version:       ReportVersion,
		ExportedAt:    time.Now(),
		Tool:          "sleepdash",
		Nights:        ds.Len(),
		Start:         opts.Start,
		End:           opts.End,
		Annual:        ds.AnnualOverview(),
		Monthly:       ds.MonthlyOverview(),
		Weekday:       weekday,
		SharesByYear:  byYear,
		SharesByMonth: byMonth,
		Daily:         daily,
	}, nil
}

// Table is one report section flattened to a header and rows of cells.
// A nil cell is a missing value.
type Table struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]any
}

// Tables flattens the report into its sections, in display order.
func (r *Report) Tables() []Table {
	return []Table{
		OverviewTable("annual", "Year", r.Annual),
		OverviewTable("monthly", "Year-Month", r.Monthly),
		OverviewTable("weekday", "Weekday", r.Weekday),
		SharesTable("shares_by_year", "Score Shares by Year", "Year", r.SharesByYear),
		SharesTable("shares_by_month", "Score Shares by Month", "Year-Month", r.SharesByMonth),
		DailyTable(r.Daily),
	}
}

// OverviewTable flattens an overview. The first two columns are the bucket
// key and the night count, followed by the overview's own columns.
func OverviewTable(name, keyLabel string, ov analytics.Overview) Table {
	t := Table{
		Name:   name,
		Title:  ov.Title,
		Header: append([]string{keyLabel, "Nights"}, ov.Columns...),
		Rows:   make([][]any, 0, len(ov.Rows)),
	}
	for _, r := range ov.Rows {
		key := r.Key
		if ov.GroupBy == analytics.ByWeekday {
			key = models.WeekdayLabel(r.Key)
		}
		row := []any{key, r.Nights}
		for _, col := range ov.Columns {
			row = append(row, overviewCell(r, col))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func overviewCell(r analytics.OverviewRow, col string) any {
	switch col {
	case analytics.ColAvgRHR:
		return cell(r.RHR)
	case analytics.ColAvgHRV:
		return cell(r.HRV)
	case analytics.ColAvgDuration:
		return r.Duration.String()
	case analytics.ColAvgConsistency:
		return cell(r.SleepConsistency)
	case analytics.ColAvgSkinTemp:
		return cell(r.SkinTemp)
	case analytics.ColAvgRecovery:
		return cell(r.Recovery)
	}
	return nil
}

// SharesTable flattens score shares. Shares are rounded to three decimals.
func SharesTable(name, title, keyLabel string, rows []analytics.ShareRow) Table {
	header := []string{keyLabel}
	header = append(header, analytics.ShareColumns...)
	header = append(header, "Good", "Okay", "Bad", "Total")

	t := Table{Name: name, Title: title, Header: header, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		row := []any{r.Key}
		for _, s := range models.NightScores {
			row = append(row, roundTo(r.Share(s), 3))
		}
		for _, s := range models.NightScores {
			row = append(row, r.Count(s))
		}
		t.Rows = append(t.Rows, append(row, r.Total))
	}
	return t
}

// DailyTable flattens the per-night series.
func DailyTable(rows []analytics.DailyRow) Table {
	t := Table{
		Name:  "daily",
		Title: "Daily Metrics",
		Header: []string{
			"Date", "Weekday", "Asleep (h)", "Night Score",
			"Sleep Consistency (%)", "HRV (ms)", "RHR (bpm)", "Skin temp (celsius)",
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Date, r.Weekday, roundTo(r.AsleepHours, 2), r.NightScore,
			cell(r.SleepConsistency), cell(r.HRV), cell(r.RHR), cell(r.SkinTemp),
		})
	}
	return t
}

// cell unwraps a nullable metric so a missing value is an untyped nil.
func cell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
