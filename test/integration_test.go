// ABOUTME: Integration tests for the sleepdash CLI.
// ABOUTME: Builds the binary and runs reports and exports against fixture exports.
package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "sleepdash")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/sleepdash")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	sleeps, _ := filepath.Abs(filepath.Join("testdata", "sleeps.csv"))
	cycles, _ := filepath.Abs(filepath.Join("testdata", "physiological_cycles.csv"))

	// Isolated config and data dirs
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Nothing attached yet
	output, err := run("report", "annual")
	if err != nil {
		t.Fatalf("idle report failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No data yet.") {
		t.Errorf("Expected idle notice, got: %s", output)
	}

	// Point the config at the fixtures
	if output, err := run("config", "set", "sleeps_file", sleeps); err != nil {
		t.Fatalf("Failed to set sleeps_file: %v\n%s", err, output)
	}
	if output, err := run("config", "set", "cycles_file", cycles); err != nil {
		t.Fatalf("Failed to set cycles_file: %v\n%s", err, output)
	}

	// Naps and rows without a duration are dropped
	output, err = run("days", "--months")
	if err != nil {
		t.Fatalf("days failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "5 nights across 2 months") {
		t.Errorf("Expected 5 nights across 2 months, got: %s", output)
	}
	if !strings.Contains(output, "2024-01 2024-02") {
		t.Errorf("Expected month list, got: %s", output)
	}

	output, err = run("report", "annual")
	if err != nil {
		t.Fatalf("report annual failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2024") || !strings.Contains(output, "6:50") {
		t.Errorf("Expected 2024 at 6:50, got: %s", output)
	}

	output, err = run("report", "monthly")
	if err != nil {
		t.Fatalf("report monthly failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "7:06") || !strings.Contains(output, "6:25") {
		t.Errorf("Expected monthly durations, got: %s", output)
	}
	if strings.Index(output, "2024-01") > strings.Index(output, "2024-02") {
		t.Errorf("Expected months in chronological order, got: %s", output)
	}

	output, err = run("report", "weekday", "--start", "2024-01-01", "--end", "2024-01-31")
	if err != nil {
		t.Fatalf("report weekday failed: %v\n%s", err, output)
	}
	if strings.Contains(output, "Monday") {
		t.Errorf("Expected no Monday in January range, got: %s", output)
	}
	if !strings.Contains(output, "2) Tuesday") || !strings.Contains(output, "4) Thursday") {
		t.Errorf("Expected Tuesday and Thursday rows, got: %s", output)
	}

	output, err = run("report", "shares", "--by", "year")
	if err != nil {
		t.Fatalf("report shares failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "0.6") || !strings.Contains(output, "0.2") {
		t.Errorf("Expected 0.6/0.2/0.2 shares, got: %s", output)
	}

	// Flags override the config
	output, err = run("--sleeps", "/nonexistent/sleeps.csv", "report", "annual")
	if err == nil {
		t.Errorf("Expected error for missing sleeps file, got: %s", output)
	}

	// JSON export to stdout
	output, err = run("export", "json")
	if err != nil {
		t.Fatalf("export json failed: %v\n%s", err, output)
	}
	var report struct {
		Nights int `json:"nights"`
		Annual struct {
			Rows []json.RawMessage `json:"rows"`
		} `json:"annual"`
	}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("Failed to parse JSON export: %v\n%s", err, output)
	}
	if report.Nights != 5 || len(report.Annual.Rows) != 1 {
		t.Errorf("unexpected JSON export: nights=%d annual rows=%d", report.Nights, len(report.Annual.Rows))
	}

	// File exports
	for _, format := range []string{"yaml", "markdown", "xlsx", "sqlite"} {
		path := filepath.Join(tmpDir, "out", "report."+format)
		output, err := run("export", format, "-o", path)
		if err != nil {
			t.Fatalf("export %s failed: %v\n%s", format, err, output)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("export %s produced no file: %v", format, err)
		}
	}

	// Date range narrows the export
	output, err = run("export", "json", "--start", "2024-02-01")
	if err != nil {
		t.Fatalf("ranged export failed: %v\n%s", err, output)
	}
	var ranged struct {
		Nights int               `json:"nights"`
		Daily  []json.RawMessage `json:"daily"`
	}
	if err := json.Unmarshal([]byte(output), &ranged); err != nil {
		t.Fatalf("Failed to parse ranged export: %v", err)
	}
	if ranged.Nights != 5 || len(ranged.Daily) != 2 {
		t.Errorf("Expected 2 daily rows of 5 nights, got %d of %d", len(ranged.Daily), ranged.Nights)
	}
}
