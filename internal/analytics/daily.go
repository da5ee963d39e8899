// ABOUTME: Per-night series for the daily view over a date range.
// ABOUTME: Values are unrounded; rows keep export order.
package analytics

// DailyRow is one night's metrics for charting.
type DailyRow struct {
	Date             string   `json:"date" yaml:"date"`
	Weekday          string   `json:"weekday" yaml:"weekday"`
	AsleepHours      float64  `json:"asleep_hours" yaml:"asleep_hours"`
	NightScore       string   `json:"night_score" yaml:"night_score"`
	SleepConsistency *float64 `json:"sleep_consistency_pct,omitempty" yaml:"sleep_consistency_pct,omitempty"`
	HRV              *float64 `json:"hrv_ms,omitempty" yaml:"hrv_ms,omitempty"`
	RHR              *float64 `json:"rhr_bpm,omitempty" yaml:"rhr_bpm,omitempty"`
	SkinTemp         *float64 `json:"skin_temp_celsius,omitempty" yaml:"skin_temp_celsius,omitempty"`
}

// Daily returns one row per night in [start, end].
func (d *Dataset) Daily(start, end string) ([]DailyRow, error) {
	sub, err := d.FilterByDateRange(start, end)
	if err != nil {
		return nil, err
	}
	rows := make([]DailyRow, 0, sub.Len())
	for _, r := range sub.records {
		rows = append(rows, DailyRow{
			Date:             r.Date,
			Weekday:          r.Weekday,
			AsleepHours:      r.AsleepMinutes / 60,
			NightScore:       string(r.NightScore),
			SleepConsistency: r.SleepConsistency,
			HRV:              r.HRV,
			RHR:              r.RHR,
			SkinTemp:         r.SkinTemp,
		})
	}
	return rows, nil
}
