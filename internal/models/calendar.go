// ABOUTME: Calendar helpers for bucketing nights by weekday, month and year.
// ABOUTME: Also defines the HoursMinutes duration value used in summaries.
package models

import (
	"fmt"
	"math"
	"time"
)

// Weekdays lists English weekday names in ISO order (Monday=1 ... Sunday=7).
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ISOWeekday returns the ISO weekday number of t, Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekdayIndex returns the ISO number for a weekday name, or 0 if unknown.
func WeekdayIndex(name string) int {
	for i, wd := range Weekdays {
		if wd == name {
			return i + 1
		}
	}
	return 0
}

// WeekdayLabel returns the ordered display label, e.g. "3) Wednesday".
func WeekdayLabel(name string) string {
	idx := WeekdayIndex(name)
	if idx == 0 {
		return name
	}
	return fmt.Sprintf("%d) %s", idx, name)
}

// YearMonth formats a sortable year-month bucket, always zero padded ("2023-09").
func YearMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// HoursMinutes is a duration expressed as whole hours and minutes.
type HoursMinutes struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// FromMinutes converts a (possibly fractional) minute count to hours and
// whole minutes. Fractional minutes are truncated.
func FromMinutes(minutes float64) HoursMinutes {
	return HoursMinutes{
		Hours:   int(math.Floor(minutes / 60)),
		Minutes: int(math.Mod(minutes, 60)),
	}
}

// TotalMinutes returns the duration in minutes.
func (hm HoursMinutes) TotalMinutes() int {
	return hm.Hours*60 + hm.Minutes
}

// String renders the duration as H:MM.
func (hm HoursMinutes) String() string {
	return fmt.Sprintf("%d:%02d", hm.Hours, hm.Minutes)
}
