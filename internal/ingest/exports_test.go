// ABOUTME: Tests for the sleeps and physiological cycles CSV readers.
// ABOUTME: Covers nullable cells, schema errors and parse errors.
package ingest

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/sleepdash/internal/models"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

const sleepsHeader = "Cycle start time,Wake onset,Sleep performance %,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n"

func TestReadSleeps(t *testing.T) {
	input := sleepsHeader +
		"2023-01-01 22:00:00,2023-01-02 06:30:00,91,480,false,77,65\n" +
		"2023-01-02 13:00:00,2023-01-02 13:30:00,,30,true,,\n" +
		"2023-01-02 23:10:00,2023-01-03 07:00:00,80,,false,NaN,\n"

	got, err := ReadSleeps(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSleeps failed: %v", err)
	}

	want := []models.SleepRecord{
		{WakeOnset: "2023-01-02 06:30:00", AsleepMinutes: f(480), Nap: b(false), SleepConsistency: f(77), RecoveryScore: f(65), Line: 2},
		{WakeOnset: "2023-01-02 13:30:00", AsleepMinutes: f(30), Nap: b(true), Line: 3},
		{WakeOnset: "2023-01-03 07:00:00", Nap: b(false), Line: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSleeps mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSleepsBOMHeader(t *testing.T) {
	input := "\ufeffWake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n" +
		"2023-01-02 06:30:00,420,FALSE,70,50\n"

	got, err := ReadSleeps(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSleeps failed: %v", err)
	}
	if len(got) != 1 || got[0].WakeOnset != "2023-01-02 06:30:00" {
		t.Errorf("unexpected records: %+v", got)
	}
	if got[0].Nap == nil || *got[0].Nap {
		t.Errorf("Nap = %v, want false", got[0].Nap)
	}
}

func TestReadSleepsSchemaError(t *testing.T) {
	input := "Wake onset,Nap,Sleep consistency %,Recovery score %\n2023-01-02 06:30:00,false,70,50\n"

	_, err := ReadSleeps(strings.NewReader(input))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Column != ColAsleepDuration {
		t.Errorf("Column = %q, want %q", se.Column, ColAsleepDuration)
	}
	if se.File != SleepsFile {
		t.Errorf("File = %q, want %q", se.File, SleepsFile)
	}
	if !strings.Contains(err.Error(), "Asleep duration (min)") {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestReadSleepsParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
		line   int
	}{
		{"non-numeric duration", "2023-01-02 06:30:00,seven,false,70,50", ColAsleepDuration, 2},
		{"bad nap flag", "2023-01-02 06:30:00,420,maybe,70,50", ColNap, 2},
		{"bad consistency", "2023-01-02 06:30:00,420,false,high,50", ColSleepConsistency, 2},
		{"infinite duration", "2023-01-02 06:30:00,Infinity,false,70,50", ColAsleepDuration, 2},
		{"negative infinite duration", "2023-01-02 06:30:00,-inf,false,70,50", ColAsleepDuration, 2},
		{"infinite recovery", "2023-01-02 06:30:00,420,false,70,+Inf", ColRecoveryScore, 2},
		{"negative duration", "2023-01-02 06:30:00,-30,false,70,50", ColAsleepDuration, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n" + tt.row + "\n"
			_, err := ReadSleeps(strings.NewReader(input))

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Column != tt.column {
				t.Errorf("Column = %q, want %q", pe.Column, tt.column)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
			if pe.File != SleepsFile {
				t.Errorf("File = %q, want %q", pe.File, SleepsFile)
			}
		})
	}
}

func TestReadSleepsParseErrorUnwraps(t *testing.T) {
	input := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n2023-01-02,abc,false,,\n"
	_, err := ReadSleeps(strings.NewReader(input))
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected error to wrap strconv.ErrSyntax, got %v", err)
	}
}

func TestReadSleepsEmptyFile(t *testing.T) {
	_, err := ReadSleeps(strings.NewReader(""))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for empty file, got %v", err)
	}
}

func TestReadSleepsMalformedRow(t *testing.T) {
	input := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n2023-01-02,4\"20,false,,\n"
	_, err := ReadSleeps(strings.NewReader(input))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for bare quote, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}

func TestReadSleepsShortRow(t *testing.T) {
	input := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n2023-01-02 06:30:00,420,false\n"
	got, err := ReadSleeps(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSleeps failed: %v", err)
	}
	want := []models.SleepRecord{
		{WakeOnset: "2023-01-02 06:30:00", AsleepMinutes: f(420), Nap: b(false), Line: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSleeps() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSleepsNaNTokensAreMissing(t *testing.T) {
	input := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n" +
		"2023-01-02 06:30:00,NAN,false,NaN,n/a\n" +
		"2023-01-03 06:30:00,420,false,Null,NONE\n"
	got, err := ReadSleeps(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSleeps failed: %v", err)
	}
	want := []models.SleepRecord{
		{WakeOnset: "2023-01-02 06:30:00", Nap: b(false), Line: 2},
		{WakeOnset: "2023-01-03 06:30:00", AsleepMinutes: f(420), Nap: b(false), Line: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSleeps() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCyclesRejectsNonFinite(t *testing.T) {
	input := "Wake onset,Heart rate variability (ms),Resting heart rate (bpm),Skin temp (celsius)\n" +
		"2023-01-02 06:30:00,61,52,inf\n"
	_, err := ReadCycles(strings.NewReader(input))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Column != ColSkinTemp || pe.File != CyclesFile {
		t.Errorf("ParseError = %+v, want %s in %s", pe, ColSkinTemp, CyclesFile)
	}
}

func TestReadCycles(t *testing.T) {
	input := "Cycle start time,Wake onset,Recovery score %,Resting heart rate (bpm),Heart rate variability (ms),Skin temp (celsius)\n" +
		"2023-01-01 22:00:00,2023-01-02 06:30:00,65,52,61,33.4\n" +
		"2023-01-03 22:00:00,,,,,\n"

	got, err := ReadCycles(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCycles failed: %v", err)
	}

	want := []models.CycleRecord{
		{WakeOnset: "2023-01-02 06:30:00", HRV: f(61), RHR: f(52), SkinTemp: f(33.4), Line: 2},
		{WakeOnset: "", Line: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadCycles mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCyclesSchemaError(t *testing.T) {
	input := "Wake onset,Heart rate variability (ms),Resting heart rate (bpm)\n"
	_, err := ReadCycles(strings.NewReader(input))

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Column != ColSkinTemp || se.File != CyclesFile {
		t.Errorf("got %+v, want column %q in %s", se, ColSkinTemp, CyclesFile)
	}
}
