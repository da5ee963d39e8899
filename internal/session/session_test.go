// ABOUTME: Tests for the session lifecycle: idle, build, rebuild and clear.
// ABOUTME: Uses small inline exports and an observed logger.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/sleepdash/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sleepsHeader = "Wake onset,Asleep duration (min),Nap,Sleep consistency %,Recovery score %\n"
const cyclesHeader = "Wake onset,Heart rate variability (ms),Resting heart rate (bpm),Skin temp (celsius)\n"

const sleepsCSV = sleepsHeader +
	"2023-01-02 07:00:00,420,false,80,70\n" +
	"2023-01-01 07:00:00,360,false,75,60\n"

const cyclesCSV = cyclesHeader +
	"2023-01-02 07:00:00,60,52,33.5\n"

func TestNewSessionIsIdle(t *testing.T) {
	s := New(nil)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Ready())

	_, err := s.Dataset()
	assert.ErrorIs(t, err, ErrIdle)
}

func TestSessionIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, New(nil).ID, New(nil).ID)
}

func TestIdleUntilBothAttached(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AttachSleeps(strings.NewReader(sleepsCSV)))
	assert.False(t, s.Ready(), "one file is not enough")

	require.NoError(t, s.AttachCycles(strings.NewReader(cyclesCSV)))
	require.True(t, s.Ready())

	ds, err := s.Dataset()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestReuploadReplacesDataset(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(strings.NewReader(sleepsCSV), strings.NewReader(cyclesCSV)))

	before, err := s.Dataset()
	require.NoError(t, err)

	more := sleepsCSV + "2023-01-03 07:00:00,480,false,90,80\n"
	require.NoError(t, s.AttachSleeps(strings.NewReader(more)))

	after, err := s.Dataset()
	require.NoError(t, err)
	assert.Equal(t, 3, after.Len())
	assert.Equal(t, 2, before.Len(), "previously handed-out dataset is unchanged")
}

func TestFailedRebuildClearsDataset(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(strings.NewReader(sleepsCSV), strings.NewReader(cyclesCSV)))

	err := s.AttachCycles(strings.NewReader("Wake onset\n2023-01-02 07:00:00\n"))
	var se *ingest.SchemaError
	require.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
	assert.Equal(t, ingest.CyclesFile, se.File)

	_, err = s.Dataset()
	assert.ErrorIs(t, err, ErrIdle)
}

func TestClear(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core))
	require.NoError(t, s.Load(strings.NewReader(sleepsCSV), strings.NewReader(cyclesCSV)))

	s.Clear()
	assert.False(t, s.Ready())

	// Attaching one file after a clear does not resurrect the old pair.
	require.NoError(t, s.AttachSleeps(strings.NewReader(sleepsCSV)))
	assert.False(t, s.Ready())

	cleared := logs.FilterMessage("session cleared").All()
	require.Len(t, cleared, 1)
	assert.Equal(t, s.ID, cleared[0].ContextMap()["session_id"])
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	sp := filepath.Join(dir, ingest.SleepsFile)
	cp := filepath.Join(dir, ingest.CyclesFile)
	require.NoError(t, os.WriteFile(sp, []byte(sleepsCSV), 0600))
	require.NoError(t, os.WriteFile(cp, []byte(cyclesCSV), 0600))

	s := New(nil)
	require.NoError(t, s.LoadFiles(sp, cp))

	ds, err := s.Dataset()
	require.NoError(t, err)
	recs := ds.Records()
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Matched)
	assert.False(t, recs[1].Matched)
}

func TestLoadFilesMissing(t *testing.T) {
	s := New(nil)
	err := s.LoadFiles(filepath.Join(t.TempDir(), "nope.csv"), "also-nope.csv")
	assert.Error(t, err)
	assert.False(t, s.Ready())
}
