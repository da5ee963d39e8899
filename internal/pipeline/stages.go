// ABOUTME: Pure transformation stages from raw export rows to enriched nights.
// ABOUTME: Each stage returns a fresh slice and never mutates its input.
package pipeline

import (
	"time"

	"github.com/harperreed/sleepdash/internal/ingest"
	"github.com/harperreed/sleepdash/internal/models"
)

// Joined pairs a sleep row with its matched physiological cycle, if any.
type Joined struct {
	Sleep models.SleepRecord
	Cycle *models.CycleRecord
}

// DropMissingDuration keeps sleeps with a known asleep duration.
func DropMissingDuration(in []models.SleepRecord) []models.SleepRecord {
	out := make([]models.SleepRecord, 0, len(in))
	for _, s := range in {
		if s.AsleepMinutes != nil {
			out = append(out, s)
		}
	}
	return out
}

// DropNaps keeps sleeps explicitly flagged as not a nap. A blank Nap cell
// does not count as "not a nap".
func DropNaps(in []models.SleepRecord) []models.SleepRecord {
	out := make([]models.SleepRecord, 0, len(in))
	for _, s := range in {
		if s.Nap != nil && !*s.Nap {
			out = append(out, s)
		}
	}
	return out
}

// Join left-joins sleeps onto cycles by exact Wake onset. When the cycles
// contain a key more than once, the first row in file order wins. Cycles
// with a blank Wake onset never match.
func Join(sleeps []models.SleepRecord, cycles []models.CycleRecord) []Joined {
	index := make(map[string]int, len(cycles))
	for i, c := range cycles {
		if c.WakeOnset == "" {
			continue
		}
		if _, seen := index[c.WakeOnset]; !seen {
			index[c.WakeOnset] = i
		}
	}

	out := make([]Joined, 0, len(sleeps))
	for _, s := range sleeps {
		j := Joined{Sleep: s}
		if i, ok := index[s.WakeOnset]; ok {
			c := cycles[i]
			j.Cycle = &c
		}
		out = append(out, j)
	}
	return out
}

// Enrich derives calendar fields and night scores for each joined row.
// Calendar fields come from the first ten characters of Wake onset only.
func Enrich(in []Joined) ([]models.EnrichedRecord, error) {
	out := make([]models.EnrichedRecord, 0, len(in))
	for _, j := range in {
		rec, err := enrichOne(j)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func enrichOne(j Joined) (models.EnrichedRecord, error) {
	s := j.Sleep
	date := s.WakeOnset
	if len(date) > 10 {
		date = date[:10]
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return models.EnrichedRecord{}, &ingest.ParseError{
			File:   ingest.SleepsFile,
			Line:   s.Line,
			Column: ingest.ColWakeOnset,
			Value:  s.WakeOnset,
			Err:    err,
		}
	}

	minutes := *s.AsleepMinutes
	weekday := models.ISOWeekday(day)
	rec := models.EnrichedRecord{
		WakeOnset:          s.WakeOnset,
		Date:               date,
		Day:                day,
		AsleepMinutes:      minutes,
		AsleepDuration:     models.FromMinutes(minutes),
		SleepConsistency:   s.SleepConsistency,
		RecoveryScore:      s.RecoveryScore,
		NightScore:         models.NightScoreFor(minutes),
		GranularNightScore: models.GranularNightScoreFor(minutes),
		WeekdayNum:         weekday,
		Weekday:            models.Weekdays[weekday-1],
		MonthNum:           int(day.Month()),
		Month:              day.Month().String(),
		Year:               day.Year(),
		YearMonth:          models.YearMonth(day.Year(), day.Month()),
	}
	if j.Cycle != nil {
		rec.Matched = true
		rec.HRV = j.Cycle.HRV
		rec.RHR = j.Cycle.RHR
		rec.SkinTemp = j.Cycle.SkinTemp
	}
	return rec, nil
}
