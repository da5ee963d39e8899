// ABOUTME: Readers for sleeps.csv and physiological_cycles.csv.
// ABOUTME: Validates required columns and parses typed, nullable fields.
package ingest

import (
	"io"

	"github.com/harperreed/sleepdash/internal/models"
)

// File names of the two wearable exports.
const (
	SleepsFile = "sleeps.csv"
	CyclesFile = "physiological_cycles.csv"
)

// Column headers used by the exports.
const (
	ColWakeOnset        = "Wake onset"
	ColAsleepDuration   = "Asleep duration (min)"
	ColNap              = "Nap"
	ColSleepConsistency = "Sleep consistency %"
	ColRecoveryScore    = "Recovery score %"
	ColHRV              = "Heart rate variability (ms)"
	ColRHR              = "Resting heart rate (bpm)"
	ColSkinTemp         = "Skin temp (celsius)"
)

// SleepColumns are the columns sleeps.csv must contain.
var SleepColumns = []string{
	ColWakeOnset, ColAsleepDuration, ColNap, ColSleepConsistency, ColRecoveryScore,
}

// CycleColumns are the columns physiological_cycles.csv must contain.
var CycleColumns = []string{
	ColWakeOnset, ColHRV, ColRHR, ColSkinTemp,
}

// ReadSleeps parses a sleeps.csv export. Rows are returned in file order
// without any filtering; cleaning happens in the pipeline.
func ReadSleeps(r io.Reader) ([]models.SleepRecord, error) {
	t, err := readTable(SleepsFile, r, SleepColumns)
	if err != nil {
		return nil, err
	}

	records := make([]models.SleepRecord, 0, len(t.rows))
	for i := range t.rows {
		rec := models.SleepRecord{
			WakeOnset: t.cell(i, ColWakeOnset),
			Line:      t.lines[i],
		}
		if rec.AsleepMinutes, err = t.number(i, ColAsleepDuration); err != nil {
			return nil, err
		}
		if m := rec.AsleepMinutes; m != nil && *m < 0 {
			return nil, &ParseError{
				File: SleepsFile, Line: t.lines[i], Column: ColAsleepDuration,
				Value: t.cell(i, ColAsleepDuration), Err: errNegative,
			}
		}
		if rec.Nap, err = t.boolean(i, ColNap); err != nil {
			return nil, err
		}
		if rec.SleepConsistency, err = t.number(i, ColSleepConsistency); err != nil {
			return nil, err
		}
		if rec.RecoveryScore, err = t.number(i, ColRecoveryScore); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadCycles parses a physiological_cycles.csv export.
func ReadCycles(r io.Reader) ([]models.CycleRecord, error) {
	t, err := readTable(CyclesFile, r, CycleColumns)
	if err != nil {
		return nil, err
	}

	records := make([]models.CycleRecord, 0, len(t.rows))
	for i := range t.rows {
		rec := models.CycleRecord{
			WakeOnset: t.cell(i, ColWakeOnset),
			Line:      t.lines[i],
		}
		if rec.HRV, err = t.number(i, ColHRV); err != nil {
			return nil, err
		}
		if rec.RHR, err = t.number(i, ColRHR); err != nil {
			return nil, err
		}
		if rec.SkinTemp, err = t.number(i, ColSkinTemp); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
