// ABOUTME: CLI command for printing sleep reports.
// ABOUTME: Annual, monthly, weekday, daily, recent, shares, granular and summary views.
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/models"
	"github.com/harperreed/sleepdash/internal/storage"
	"github.com/spf13/cobra"
)

var (
	reportStart string
	reportEnd   string
	reportFrom  string
	reportTo    string
	reportBy    string
	reportLimit int
)

var reportViews = []string{"annual", "monthly", "weekday", "daily", "recent", "shares", "granular", "summary"}

var reportCmd = &cobra.Command{
	Use:     "report <view>",
	Aliases: []string{"r"},
	Short:   "Print a sleep report",
	Long: `Print one report view computed from the sleeps and cycles exports.

VIEWS:

  annual     Mean metrics per calendar year
  monthly    Mean metrics per year-month, with skin temperature
  weekday    Mean metrics per weekday, with skin temp and recovery
  daily      One row per night
  recent     The first N nights of the export (default 30)
  shares     Good/Okay/Bad night counts and shares
  granular   Counts of the six-step night scale (Terrible ... Great)
  summary    One summary row for a date range

OPTIONS:

  --start, --end   Date range YYYY-MM-DD (weekday, daily, summary)
  --from, --to     Month range YYYY-MM (monthly)
  --by             year or year_month (shares, granular; default year_month)
  --limit, -n      Max rows (daily, recent)

EXAMPLES:

  sleepdash report annual
  sleepdash report monthly --from 2023-01 --to 2023-12
  sleepdash report weekday --start 2023-01-01 --end 2023-03-31
  sleepdash report shares --by year
  sleepdash report summary --start 2024-01-01 --end 2024-01-31`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: reportViews,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := args[0]
		if !isReportView(view) {
			return fmt.Errorf("unknown view: %s (use %v)", view, reportViews)
		}
		if err := validateReportFlags(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ds, err := loadDataset(out)
		if err != nil || ds == nil {
			return err
		}
		return renderView(out, ds, view)
	},
}

func isReportView(view string) bool {
	for _, v := range reportViews {
		if v == view {
			return true
		}
	}
	return false
}

func validateReportFlags() error {
	for _, d := range []string{reportStart, reportEnd} {
		if err := analytics.ValidateDate(d); err != nil {
			return err
		}
	}
	for _, m := range []string{reportFrom, reportTo} {
		if err := analytics.ValidateMonth(m); err != nil {
			return err
		}
	}
	return nil
}

func renderView(out io.Writer, ds *analytics.Dataset, view string) error {
	switch view {
	case "annual":
		printTable(out, storage.OverviewTable("annual", "Year", ds.AnnualOverview()))
	case "monthly":
		ov := ds.MonthlyOverview().Between(reportFrom, reportTo)
		printTable(out, storage.OverviewTable("monthly", "Year-Month", ov))
	case "weekday":
		ov, err := ds.WeekdayOverview(reportStart, reportEnd)
		if err != nil {
			return err
		}
		printTable(out, storage.OverviewTable("weekday", "Weekday", ov))
	case "daily":
		rows, err := ds.Daily(reportStart, reportEnd)
		if err != nil {
			return err
		}
		if reportLimit > 0 && len(rows) > reportLimit {
			rows = rows[:reportLimit]
		}
		printTable(out, storage.DailyTable(rows))
	case "recent":
		return renderRecent(out, ds)
	case "shares":
		by, err := sharesGroupBy()
		if err != nil {
			return err
		}
		rows, err := ds.ScoreShares(by)
		if err != nil {
			return err
		}
		printTable(out, storage.SharesTable("shares", "Score Shares", keyLabel(by), rows))
	case "granular":
		by, err := sharesGroupBy()
		if err != nil {
			return err
		}
		rows, err := ds.GranularCounts(by)
		if err != nil {
			return err
		}
		printTable(out, granularTable(by, rows))
	case "summary":
		return renderSummary(out, ds)
	}
	return nil
}

func sharesGroupBy() (analytics.GroupBy, error) {
	if reportBy == "" {
		return analytics.ByYearMonth, nil
	}
	return analytics.ParseGroupBy(reportBy)
}

func keyLabel(by analytics.GroupBy) string {
	switch by {
	case analytics.ByYear:
		return "Year"
	case analytics.ByWeekday:
		return "Weekday"
	default:
		return "Year-Month"
	}
}

func granularTable(by analytics.GroupBy, rows []analytics.GranularRow) storage.Table {
	header := []string{keyLabel(by)}
	for _, s := range models.GranularNightScores {
		header = append(header, string(s))
	}
	header = append(header, "Total")

	t := storage.Table{Name: "granular", Title: "Night Score Distribution", Header: header}
	for _, r := range rows {
		row := []any{r.Key}
		for _, c := range r.Counts {
			row = append(row, c)
		}
		row = append(row, r.Total)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func renderRecent(out io.Writer, ds *analytics.Dataset) error {
	n := reportLimit
	if n <= 0 {
		n = 30
	}
	t := storage.Table{
		Name:   "recent",
		Title:  fmt.Sprintf("Last %d Nights", n),
		Header: []string{"Date", "Weekday", "Asleep", "Night Score", "HRV (ms)", "RHR (bpm)", "Recovery (%)"},
	}
	for _, r := range ds.Recent(n) {
		t.Rows = append(t.Rows, []any{
			r.Date, r.Weekday, r.AsleepDuration.String(), string(r.NightScore),
			value(r.HRV), value(r.RHR), value(r.RecoveryScore),
		})
	}
	printTable(out, t)
	return nil
}

func renderSummary(out io.Writer, ds *analytics.Dataset) error {
	row, ok, err := ds.RangeSummary(reportStart, reportEnd)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(out, "No nights in range.")
		return nil
	}

	lines := [][2]string{
		{"Nights", strconv.Itoa(row.Nights)},
		{analytics.ColAvgDuration, row.Duration.String()},
		{analytics.ColAvgRHR, storage.FormatCell(value(row.RHR))},
		{analytics.ColAvgHRV, storage.FormatCell(value(row.HRV))},
		{analytics.ColAvgConsistency, storage.FormatCell(value(row.SleepConsistency))},
		{analytics.ColAvgSkinTemp, storage.FormatCell(value(row.SkinTemp))},
		{analytics.ColAvgRecovery, storage.FormatCell(value(row.Recovery))},
	}
	for i := range lines {
		if lines[i][1] == "" {
			lines[i][1] = missing
		}
	}
	printPanel(out, fmt.Sprintf("Summary %s to %s", boundOr(reportStart, "first night"), boundOr(reportEnd, "last night")), lines)
	return nil
}

// value unwraps a nullable metric for table cells.
func value(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boundOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "first date to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "last date to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first month to include (YYYY-MM)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last month to include (YYYY-MM)")
	reportCmd.Flags().StringVar(&reportBy, "by", "", "group by year or year_month")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "max rows (daily, recent)")
	rootCmd.AddCommand(reportCmd)
}
