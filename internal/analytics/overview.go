// ABOUTME: Mean-based summary tables grouped by year, year-month, weekday or range.
// ABOUTME: Means are rounded to one decimal; durations are shown as H:MM.
package analytics

import (
	"github.com/harperreed/sleepdash/internal/models"
)

// Column names of overview tables, in display order.
const (
	ColAvgRHR         = "Avg. RHR"
	ColAvgHRV         = "Avg. HRV"
	ColAvgDuration    = "Avg. Asleep Duration (h)"
	ColAvgConsistency = "Avg. Sleep Consistency (%)"
	ColAvgSkinTemp    = "Avg. Skin temp (celsius)"
	ColAvgRecovery    = "Avg. Recovery (%)"
)

// OverviewRow summarises one bucket. Nil metrics had no values in the bucket.
type OverviewRow struct {
	Key              string              `json:"key" yaml:"key"`
	Nights           int                 `json:"nights" yaml:"nights"`
	RHR              *float64            `json:"avg_rhr" yaml:"avg_rhr"`
	HRV              *float64            `json:"avg_hrv" yaml:"avg_hrv"`
	Duration         models.HoursMinutes `json:"avg_asleep_duration" yaml:"avg_asleep_duration"`
	AsleepMinutes    float64             `json:"avg_asleep_minutes" yaml:"avg_asleep_minutes"`
	SleepConsistency *float64            `json:"avg_sleep_consistency_pct" yaml:"avg_sleep_consistency_pct"`
	SkinTemp         *float64            `json:"avg_skin_temp_celsius,omitempty" yaml:"avg_skin_temp_celsius,omitempty"`
	Recovery         *float64            `json:"avg_recovery_pct,omitempty" yaml:"avg_recovery_pct,omitempty"`
}

// Overview is a fixed-schema summary table.
type Overview struct {
	Title   string        `json:"title" yaml:"title"`
	GroupBy GroupBy       `json:"group_by" yaml:"group_by"`
	Columns []string      `json:"columns" yaml:"columns"`
	Rows    []OverviewRow `json:"rows" yaml:"rows"`
}

// overviewOpts selects the optional columns of an overview.
type overviewOpts struct {
	skinTemp bool
	recovery bool
}

func (o overviewOpts) columns() []string {
	cols := []string{ColAvgRHR, ColAvgHRV, ColAvgDuration, ColAvgConsistency}
	if o.skinTemp {
		cols = append(cols, ColAvgSkinTemp)
	}
	if o.recovery {
		cols = append(cols, ColAvgRecovery)
	}
	return cols
}

// AnnualOverview summarises nights per calendar year, ascending.
func (d *Dataset) AnnualOverview() Overview {
	return d.overview("Annual Metrics", ByYear, overviewOpts{})
}

// MonthlyOverview summarises nights per year-month bucket, ascending,
// including skin temperature.
func (d *Dataset) MonthlyOverview() Overview {
	return d.overview("Monthly Metrics", ByYearMonth, overviewOpts{skinTemp: true})
}

// WeekdayOverview summarises nights in [start, end] per weekday, Monday first.
// Empty bounds are open.
func (d *Dataset) WeekdayOverview(start, end string) (Overview, error) {
	sub, err := d.FilterByDateRange(start, end)
	if err != nil {
		return Overview{}, err
	}
	return sub.overview("Metrics by Weekday", ByWeekday, overviewOpts{skinTemp: true, recovery: true}), nil
}

// RangeSummary summarises every night in [start, end] as a single row keyed
// "start..end". An open bound is keyed by the first or last night in range.
// ok is false when the range holds no nights.
func (d *Dataset) RangeSummary(start, end string) (row OverviewRow, ok bool, err error) {
	sub, err := d.FilterByDateRange(start, end)
	if err != nil {
		return OverviewRow{}, false, err
	}
	if sub.Len() == 0 {
		return OverviewRow{}, false, nil
	}
	days := sub.Days()
	key := boundOr(start, days[0]) + ".." + boundOr(end, days[len(days)-1])
	return summarise(key, sub.records, overviewOpts{skinTemp: true, recovery: true}), true, nil
}

func boundOr(bound, fallback string) string {
	if bound == "" {
		return fallback
	}
	return bound
}

func (d *Dataset) overview(title string, by GroupBy, opts overviewOpts) Overview {
	keys, groups := d.groups(groupings[by])

	rows := make([]OverviewRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, summarise(k, groups[k], opts))
	}
	return Overview{Title: title, GroupBy: by, Columns: opts.columns(), Rows: rows}
}

func summarise(key string, nights []models.EnrichedRecord, opts overviewOpts) OverviewRow {
	var hrv, rhr, dur, cons, temp, rec mean
	for _, r := range nights {
		hrv.add(r.HRV)
		rhr.add(r.RHR)
		dur.addValue(r.AsleepMinutes)
		cons.add(r.SleepConsistency)
		temp.add(r.SkinTemp)
		rec.add(r.RecoveryScore)
	}

	row := OverviewRow{
		Key:              key,
		Nights:           len(nights),
		RHR:              round1Ptr(rhr.value()),
		HRV:              round1Ptr(hrv.value()),
		SleepConsistency: round1Ptr(cons.value()),
	}
	if avg := dur.value(); avg != nil {
		row.AsleepMinutes = *avg
		row.Duration = models.FromMinutes(*avg)
	}
	if opts.skinTemp {
		row.SkinTemp = round1Ptr(temp.value())
	}
	if opts.recovery {
		row.Recovery = round1Ptr(rec.value())
	}
	return row
}

// Between keeps only rows whose key lies in [from, to]. Keys must be
// zero-padded so that lexicographic order is chronological.
func (o Overview) Between(from, to string) Overview {
	out := o
	out.Rows = make([]OverviewRow, 0, len(o.Rows))
	for _, r := range o.Rows {
		if inRange(r.Key, from, to) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
