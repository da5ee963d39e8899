// ABOUTME: Tests for the cleaning, join and enrichment stages.
// ABOUTME: Covers filter idempotence, join cardinality and duplicate keys.
package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/sleepdash/internal/ingest"
	"github.com/harperreed/sleepdash/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func sleep(wake string, minutes *float64, nap *bool) models.SleepRecord {
	return models.SleepRecord{WakeOnset: wake, AsleepMinutes: minutes, Nap: nap}
}

func TestDropFiltersScenarioA(t *testing.T) {
	in := []models.SleepRecord{
		sleep("2023-01-01 07:00:00", f(480), b(false)),
		sleep("2023-01-02 14:00:00", f(30), b(true)),
	}

	out := DropNaps(DropMissingDuration(in))
	if len(out) != 1 {
		t.Fatalf("expected 1 row after filtering, got %d", len(out))
	}
	if out[0].WakeOnset != "2023-01-01 07:00:00" {
		t.Errorf("kept wrong row: %s", out[0].WakeOnset)
	}

	enriched, err := Enrich(Join(out, nil))
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if enriched[0].NightScore != models.NightGood {
		t.Errorf("NightScore = %s, want Good", enriched[0].NightScore)
	}
}

func TestDropFiltersIdempotent(t *testing.T) {
	in := []models.SleepRecord{
		sleep("a", f(400), b(false)),
		sleep("b", nil, b(false)),
		sleep("c", f(20), b(true)),
		sleep("d", f(420), nil),
		sleep("e", f(360), b(false)),
	}

	once := DropNaps(DropMissingDuration(in))
	twice := DropNaps(DropMissingDuration(once))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("re-filtering changed the set (-once +twice):\n%s", diff)
	}

	swapped := DropMissingDuration(DropNaps(in))
	if diff := cmp.Diff(once, swapped); diff != "" {
		t.Errorf("filter order changed the result (-a +b):\n%s", diff)
	}

	var keys []string
	for _, s := range once {
		keys = append(keys, s.WakeOnset)
	}
	if got := strings.Join(keys, ","); got != "a,e" {
		t.Errorf("kept %s, want a,e", got)
	}
}

func TestDropNapsDoesNotMutateInput(t *testing.T) {
	in := []models.SleepRecord{sleep("a", f(400), b(true)), sleep("b", f(400), b(false))}
	_ = DropNaps(in)
	if in[0].WakeOnset != "a" || in[1].WakeOnset != "b" || len(in) != 2 {
		t.Errorf("input was mutated: %+v", in)
	}
}

func TestJoinCardinality(t *testing.T) {
	sleeps := []models.SleepRecord{
		sleep("2023-01-01 07:00:00", f(400), b(false)),
		sleep("2023-01-02 07:00:00", f(400), b(false)),
		sleep("2023-01-03 07:00:00", f(400), b(false)),
	}
	cycles := []models.CycleRecord{
		{WakeOnset: "2023-01-01 07:00:00", HRV: f(50)},
		{WakeOnset: "2023-01-03 07:00:00", HRV: f(60)},
		{WakeOnset: "2023-01-09 07:00:00", HRV: f(70)},
	}

	joined := Join(sleeps, cycles)
	if len(joined) != len(sleeps) {
		t.Fatalf("len(joined) = %d, want %d", len(joined), len(sleeps))
	}
	if joined[0].Cycle == nil || *joined[0].Cycle.HRV != 50 {
		t.Errorf("first row should match HRV 50, got %+v", joined[0].Cycle)
	}
	if joined[1].Cycle != nil {
		t.Errorf("second row should be unmatched, got %+v", joined[1].Cycle)
	}
	if joined[2].Cycle == nil || *joined[2].Cycle.HRV != 60 {
		t.Errorf("third row should match HRV 60, got %+v", joined[2].Cycle)
	}
}

func TestJoinDuplicateKeysFirstWins(t *testing.T) {
	sleeps := []models.SleepRecord{sleep("2023-01-01 07:00:00", f(400), b(false))}
	cycles := []models.CycleRecord{
		{WakeOnset: "2023-01-01 07:00:00", HRV: f(41), Line: 2},
		{WakeOnset: "2023-01-01 07:00:00", HRV: f(99), Line: 3},
	}

	joined := Join(sleeps, cycles)
	if len(joined) != 1 {
		t.Fatalf("duplicate keys multiplied rows: got %d", len(joined))
	}
	if joined[0].Cycle.Line != 2 || *joined[0].Cycle.HRV != 41 {
		t.Errorf("expected first occurrence (line 2), got %+v", joined[0].Cycle)
	}
}

func TestJoinBlankKeyNeverMatches(t *testing.T) {
	sleeps := []models.SleepRecord{{WakeOnset: "", AsleepMinutes: f(400), Nap: b(false)}}
	cycles := []models.CycleRecord{{WakeOnset: "", HRV: f(41)}}

	joined := Join(sleeps, cycles)
	if joined[0].Cycle != nil {
		t.Errorf("blank key matched: %+v", joined[0].Cycle)
	}
}

func TestEnrichUnmatchedKeepsCalendarScenarioC(t *testing.T) {
	joined := Join([]models.SleepRecord{sleep("2023-09-04 06:45:12", f(419), b(false))}, nil)

	out, err := Enrich(joined)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	r := out[0]

	if r.Matched || r.HRV != nil || r.RHR != nil || r.SkinTemp != nil {
		t.Errorf("expected null physiological fields, got %+v", r)
	}

	want := models.EnrichedRecord{
		WakeOnset:          "2023-09-04 06:45:12",
		Date:               "2023-09-04",
		Day:                r.Day,
		AsleepMinutes:      419,
		AsleepDuration:     models.HoursMinutes{Hours: 6, Minutes: 59},
		NightScore:         models.NightOkay,
		GranularNightScore: models.GranularOkay,
		WeekdayNum:         1,
		Weekday:            "Monday",
		MonthNum:           9,
		Month:              "September",
		Year:               2023,
		YearMonth:          "2023-09",
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("enriched record mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichCopiesCycleFields(t *testing.T) {
	sleeps := []models.SleepRecord{{
		WakeOnset: "2023-10-15 07:00:00", AsleepMinutes: f(480), Nap: b(false),
		SleepConsistency: f(81), RecoveryScore: f(66),
	}}
	cycles := []models.CycleRecord{{WakeOnset: "2023-10-15 07:00:00", HRV: f(55), RHR: f(50), SkinTemp: f(33.2)}}

	out, err := Enrich(Join(sleeps, cycles))
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	r := out[0]
	if !r.Matched || *r.HRV != 55 || *r.RHR != 50 || *r.SkinTemp != 33.2 {
		t.Errorf("cycle fields not copied: %+v", r)
	}
	if *r.SleepConsistency != 81 || *r.RecoveryScore != 66 {
		t.Errorf("sleep fields not copied: %+v", r)
	}
	if r.Weekday != "Sunday" || r.WeekdayNum != 7 {
		t.Errorf("weekday = %d %s, want 7 Sunday", r.WeekdayNum, r.Weekday)
	}
	if r.YearMonth != "2023-10" || r.GranularNightScore != models.GranularGreat {
		t.Errorf("unexpected derived fields: %+v", r)
	}
}

func TestEnrichBadWakeOnset(t *testing.T) {
	joined := Join([]models.SleepRecord{{WakeOnset: "not-a-date", AsleepMinutes: f(400), Nap: b(false), Line: 7}}, nil)

	_, err := Enrich(joined)
	var pe *ingest.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Column != ingest.ColWakeOnset || pe.Line != 7 || pe.File != ingest.SleepsFile {
		t.Errorf("unexpected error details: %+v", pe)
	}
}

func TestRun(t *testing.T) {
	sleeps := "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n" +
		"2023-01-03 07:00:00,360,false,70,60\n" +
		"2023-01-02 13:00:00,30,true,,\n" +
		"2023-01-02 07:00:00,,false,,\n" +
		"2023-01-01 07:00:00,420,false,80,70\n"
	cycles := "Wake onset,Heart rate variability (ms),Resting heart rate (bpm),Skin temp (celsius)\n" +
		"2023-01-03 07:00:00,50,55,33.1\n" +
		"2023-01-01 07:00:00,60,52,33.5\n"

	core, logs := observer.New(zapcore.DebugLevel)
	out, err := Run(strings.NewReader(sleeps), strings.NewReader(cycles), zap.New(core))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Date != "2023-01-03" || out[1].Date != "2023-01-01" {
		t.Errorf("input order not retained: %s, %s", out[0].Date, out[1].Date)
	}

	stages := logs.FilterMessage("stage complete").All()
	if len(stages) != 6 {
		t.Errorf("expected 6 stage log entries, got %d", len(stages))
	}
}

func TestRunSchemaErrorNoOutput(t *testing.T) {
	sleeps := "Wake onset,Nap\n2023-01-01 07:00:00,false\n"
	cycles := "Wake onset,Heart rate variability (ms),Resting heart rate (bpm),Skin temp (celsius)\n"

	out, err := Run(strings.NewReader(sleeps), strings.NewReader(cycles), nil)
	if err == nil {
		t.Fatal("expected schema error")
	}
	if out != nil {
		t.Errorf("expected no partial output, got %d rows", len(out))
	}
}
