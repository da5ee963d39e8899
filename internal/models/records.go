// ABOUTME: Record types for the two wearable exports and the joined night.
// ABOUTME: EnrichedRecord is the unit every aggregate is computed from.
package models

import "time"

// SleepRecord is one row of sleeps.csv.
type SleepRecord struct {
	WakeOnset        string
	AsleepMinutes    *float64
	Nap              *bool
	SleepConsistency *float64
	RecoveryScore    *float64
	Line             int
}

// CycleRecord is one row of physiological_cycles.csv.
type CycleRecord struct {
	WakeOnset string
	HRV       *float64
	RHR       *float64
	SkinTemp  *float64
	Line      int
}

// EnrichedRecord is one non-nap night joined with its physiological cycle
// and annotated with calendar and score fields.
type EnrichedRecord struct {
	WakeOnset string    `json:"wake_onset" yaml:"wake_onset"`
	Date      string    `json:"date" yaml:"date"`
	Day       time.Time `json:"-" yaml:"-"`

	AsleepMinutes    float64      `json:"asleep_minutes" yaml:"asleep_minutes"`
	AsleepDuration   HoursMinutes `json:"asleep_duration" yaml:"asleep_duration"`
	SleepConsistency *float64     `json:"sleep_consistency_pct,omitempty" yaml:"sleep_consistency_pct,omitempty"`
	RecoveryScore    *float64     `json:"recovery_score_pct,omitempty" yaml:"recovery_score_pct,omitempty"`

	Matched  bool     `json:"matched_cycle" yaml:"matched_cycle"`
	HRV      *float64 `json:"hrv_ms,omitempty" yaml:"hrv_ms,omitempty"`
	RHR      *float64 `json:"rhr_bpm,omitempty" yaml:"rhr_bpm,omitempty"`
	SkinTemp *float64 `json:"skin_temp_celsius,omitempty" yaml:"skin_temp_celsius,omitempty"`

	NightScore         NightScore         `json:"night_score" yaml:"night_score"`
	GranularNightScore GranularNightScore `json:"granular_night_score" yaml:"granular_night_score"`

	WeekdayNum int    `json:"weekday_num" yaml:"weekday_num"`
	Weekday    string `json:"weekday" yaml:"weekday"`
	MonthNum   int    `json:"month_num" yaml:"month_num"`
	Month      string `json:"month" yaml:"month"`
	Year       int    `json:"year" yaml:"year"`
	YearMonth  string `json:"year_month" yaml:"year_month"`
}
