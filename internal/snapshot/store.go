// Package snapshot persists audit reports as write-once JSON files keyed by
// timestamp id.
//
// Layout, under the store directory (default .dr/audit-snapshots):
//
//	<YYYYMMDD-HHmmss>.json       full audit report
//	<YYYYMMDD-HHmmss>.meta.json  summary metadata for cheap listing
//
// Writes are atomic: content goes to a temporary file in the same directory
// and is renamed into place, so a crash mid-write never leaves a partial
// snapshot visible to List or Load. The store assumes a single writer per
// invocation; there is no lock manager.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/canonical"
)

// IDFormat is the timestamp layout snapshot ids are minted from.
const IDFormat = "20060102-150405"

const metaSuffix = ".meta.json"

// Clock supplies the current time for id minting. Production uses the
// system clock; tests inject a deterministic one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Meta is the small per-snapshot metadata file, enough for listing without
// loading the full report.
type Meta struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ModelName    string    `json:"model_name"`
	ModelVersion string    `json:"model_version"`
	Layers       []string  `json:"layers"`
	Fingerprint  string    `json:"fingerprint,omitempty"`
}

// Store reads and writes snapshots under one directory.
type Store struct {
	dir   string
	clock Clock
	max   int // retention limit, 0 = unlimited
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the id-minting clock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithMaxSnapshots enables retention: after each save, the oldest snapshots
// beyond the limit are evicted.
func WithMaxSnapshots(n int) Option {
	return func(s *Store) { s.max = n }
}

// New creates a store rooted at dir. The directory is created lazily on
// first save.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save persists the report under a fresh timestamp id and returns its
// metadata. A second save within the same second returns a
// WriteConflictError; snapshots are write-once and never overwritten.
func (s *Store) Save(report *audit.Report) (Meta, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Meta{}, fmt.Errorf("create snapshot dir: %w", err)
	}

	id := s.clock.Now().UTC().Format(IDFormat)
	reportPath := s.reportPath(id)
	if _, err := os.Stat(reportPath); err == nil {
		return Meta{}, &WriteConflictError{ID: id}
	}

	fingerprint, err := report.Fingerprint()
	if err != nil {
		return Meta{}, fmt.Errorf("fingerprint report: %w", err)
	}
	meta := Meta{
		ID:           id,
		Timestamp:    report.Timestamp,
		ModelName:    report.ModelName,
		ModelVersion: report.ModelVersion,
		Layers:       report.Layers,
		Fingerprint:  fingerprint,
	}

	reportJSON, err := canonical.Marshal(report)
	if err != nil {
		return Meta{}, fmt.Errorf("marshal report: %w", err)
	}
	metaJSON, err := canonical.Marshal(meta)
	if err != nil {
		return Meta{}, fmt.Errorf("marshal meta: %w", err)
	}

	if err := writeAtomic(reportPath, reportJSON); err != nil {
		return Meta{}, err
	}
	if err := writeAtomic(s.metaPath(id), metaJSON); err != nil {
		// Keep the pair consistent: a meta-less report is invisible to List.
		os.Remove(reportPath)
		return Meta{}, err
	}

	if s.max > 0 {
		if err := s.evict(); err != nil {
			return Meta{}, err
		}
	}
	return meta, nil
}

// List returns metadata for every snapshot, newest first.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metaSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var m Meta
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		metas = append(metas, m)
	}

	// Ids are zero-padded timestamps, so lexicographic order is
	// chronological.
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID > metas[j].ID })
	return metas, nil
}

// Load reads the full report for id. Missing ids return a NotFoundError
// listing what the store does hold.
func (s *Store) Load(id string) (*audit.Report, error) {
	data, err := os.ReadFile(s.reportPath(id))
	if os.IsNotExist(err) {
		return nil, s.notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	var report audit.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", id, err)
	}
	return &report, nil
}

// Delete removes a snapshot and its metadata.
func (s *Store) Delete(id string) error {
	if _, err := os.Stat(s.reportPath(id)); os.IsNotExist(err) {
		return s.notFound(id)
	}
	if err := os.Remove(s.reportPath(id)); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if err := os.Remove(s.metaPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot meta %s: %w", id, err)
	}
	return nil
}

// Clear removes every snapshot. Returns the number removed.
func (s *Store) Clear() (int, error) {
	metas, err := s.List()
	if err != nil {
		return 0, err
	}
	for _, m := range metas {
		if err := s.Delete(m.ID); err != nil {
			return 0, err
		}
	}
	return len(metas), nil
}

// evict drops the oldest snapshots beyond the retention limit.
func (s *Store) evict() error {
	metas, err := s.List()
	if err != nil {
		return err
	}
	for i := s.max; i < len(metas); i++ {
		if err := s.Delete(metas[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) notFound(id string) *NotFoundError {
	nf := &NotFoundError{ID: id}
	if metas, err := s.List(); err == nil {
		for _, m := range metas {
			nf.Available = append(nf.Available, m.ID)
		}
	}
	return nf
}

func (s *Store) reportPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) metaPath(id string) string {
	return filepath.Join(s.dir, id+metaSuffix)
}

// writeAtomic writes data to a temp file in the target's directory and
// renames it into place. Rename within a directory is atomic on POSIX
// filesystems, so readers see either the old state or the complete file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
