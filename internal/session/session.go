// ABOUTME: Per-session holder of the two uploaded exports and the dataset built from them.
// ABOUTME: Idle until both files are attached; re-uploads rebuild and swap the dataset.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/pipeline"
	"go.uber.org/zap"
)

// ErrIdle is returned by queries when no dataset has been built yet.
var ErrIdle = errors.New("no data yet: attach both sleeps and physiological cycles exports")

// Session is the explicit context that owns one user's dataset.
type Session struct {
	ID string

	mu     sync.RWMutex
	sleeps []byte
	cycles []byte
	data   *analytics.Dataset
	log    *zap.Logger
}

// New creates an idle session.
func New(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New().String()
	return &Session{ID: id, log: log.With(zap.String("session_id", id))}
}

// AttachSleeps stores the sleeps export and rebuilds when both files are present.
func (s *Session) AttachSleeps(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read sleeps export: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = raw
	s.log.Info("sleeps export attached", zap.Int("bytes", len(raw)))
	return s.rebuildLocked()
}

// AttachCycles stores the physiological cycles export and rebuilds when both files are present.
func (s *Session) AttachCycles(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read cycles export: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles = raw
	s.log.Info("cycles export attached", zap.Int("bytes", len(raw)))
	return s.rebuildLocked()
}

// Load attaches both exports and builds the dataset in one step.
func (s *Session) Load(sleeps, cycles io.Reader) error {
	rawSleeps, err := io.ReadAll(sleeps)
	if err != nil {
		return fmt.Errorf("read sleeps export: %w", err)
	}
	rawCycles, err := io.ReadAll(cycles)
	if err != nil {
		return fmt.Errorf("read cycles export: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps, s.cycles = rawSleeps, rawCycles
	return s.rebuildLocked()
}

// LoadFiles reads both exports from disk and builds the dataset.
func (s *Session) LoadFiles(sleepsPath, cyclesPath string) error {
	sf, err := os.Open(sleepsPath)
	if err != nil {
		return fmt.Errorf("open sleeps export: %w", err)
	}
	defer func() { _ = sf.Close() }()

	cf, err := os.Open(cyclesPath)
	if err != nil {
		return fmt.Errorf("open cycles export: %w", err)
	}
	defer func() { _ = cf.Close() }()

	return s.Load(sf, cf)
}

// rebuildLocked recomputes the dataset. The new dataset replaces the old one
// only once fully built; on failure the session holds no dataset.
func (s *Session) rebuildLocked() error {
	if s.sleeps == nil || s.cycles == nil {
		return nil
	}
	records, err := pipeline.Run(bytes.NewReader(s.sleeps), bytes.NewReader(s.cycles), s.log)
	if err != nil {
		s.data = nil
		s.log.Warn("rebuild failed", zap.Error(err))
		return fmt.Errorf("build dataset: %w", err)
	}
	s.data = analytics.NewDataset(records)
	s.log.Info("dataset rebuilt", zap.Int("nights", s.data.Len()))
	return nil
}

// Ready reports whether a dataset is available.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Dataset returns the current dataset, or ErrIdle when none is built.
func (s *Session) Dataset() (*analytics.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, ErrIdle
	}
	return s.data, nil
}

// Clear drops both exports and the dataset, returning the session to idle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps, s.cycles, s.data = nil, nil, nil
	s.log.Info("session cleared")
}
