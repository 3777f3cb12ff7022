// Package artifacts persists run outputs as immutable snapshots keyed by run
// id, plus atomically replaced "current" files that downstream readers watch.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	ioatomic "github.com/reconrun/reconrun/internal/io"
)

const (
	summaryFile     = "recon_summary.json"
	dailyFile       = "recon_daily.jsonl"
	determinismFile = "recon_determinism_report.json"
	pointerFile     = "current_run.json"
	runsDir         = "runs"
)

// Store is the artifact directory layout. Snapshots live under runs/<id>/;
// the current summary and daily log sit at the directory root and are only
// ever replaced whole.
type Store struct {
	dir   string
	newID func() string
}

// NewStore opens (creating if needed) an artifact store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, newID: uuid.NewString}
}

// NewRunID mints a fresh run id.
func (s *Store) NewRunID() string {
	return s.newID()
}

// SummaryPath is the current-summary location readers consume.
func (s *Store) SummaryPath() string {
	return filepath.Join(s.dir, summaryFile)
}

// DailyPath is the current daily-log location.
func (s *Store) DailyPath() string {
	return filepath.Join(s.dir, dailyFile)
}

// DeterminismPath is the determinism-report location.
func (s *Store) DeterminismPath() string {
	return filepath.Join(s.dir, determinismFile)
}

// RunDir returns the snapshot directory for a run id.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.dir, runsDir, runID)
}

// SaveRun writes a run's summary (and daily log, when present) into its
// immutable snapshot directory.
func (s *Store) SaveRun(runID string, summary any, dailyLines [][]byte) error {
	dir := s.RunDir(runID)
	if err := ioatomic.WriteJSONAtomic(filepath.Join(dir, summaryFile), summary); err != nil {
		return fmt.Errorf("save run %s summary: %w", runID, err)
	}
	if dailyLines != nil {
		if err := ioatomic.WriteLinesAtomic(filepath.Join(dir, dailyFile), dailyLines); err != nil {
			return fmt.Errorf("save run %s daily log: %w", runID, err)
		}
	}
	return nil
}

// Publish points the current files at a saved snapshot. Each file is replaced
// atomically; the pointer is updated last so it never names an unpublished
// snapshot.
func (s *Store) Publish(runID string) error {
	dir := s.RunDir(runID)
	if err := ioatomic.CopyFileAtomic(filepath.Join(dir, summaryFile), s.SummaryPath()); err != nil {
		return fmt.Errorf("publish run %s summary: %w", runID, err)
	}
	srcDaily := filepath.Join(dir, dailyFile)
	if _, err := os.Stat(srcDaily); err == nil {
		if err := ioatomic.CopyFileAtomic(srcDaily, s.DailyPath()); err != nil {
			return fmt.Errorf("publish run %s daily log: %w", runID, err)
		}
	}
	pointer := struct {
		RunID string `json:"run_id"`
	}{RunID: runID}
	if err := ioatomic.WriteJSONAtomic(filepath.Join(s.dir, pointerFile), pointer); err != nil {
		return fmt.Errorf("publish run %s pointer: %w", runID, err)
	}
	return nil
}

// CurrentRunID reads the pointer file, returning "" when nothing has been
// published yet.
func (s *Store) CurrentRunID() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, pointerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var pointer struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(data, &pointer); err != nil {
		return "", fmt.Errorf("parse run pointer: %w", err)
	}
	return pointer.RunID, nil
}

// PublishOverride replaces the current summary directly, bypassing snapshots.
// The determinism verifier uses it to force an error envelope over output
// that individually "succeeded" but cannot be trusted.
func (s *Store) PublishOverride(summary any) error {
	return ioatomic.WriteJSONAtomic(s.SummaryPath(), summary)
}

// WriteDeterminismReport persists the verification artifact.
func (s *Store) WriteDeterminismReport(report any) error {
	return ioatomic.WriteJSONAtomic(s.DeterminismPath(), report)
}
