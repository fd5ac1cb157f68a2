// Package history keeps a SQLite index of headline metrics per saved
// snapshot, so trend queries never need to load full report JSON. The
// database is derived state: the snapshot files under .dr/audit-snapshots
// remain the source of truth, and the index can be deleted at any time.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/snapshot"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path. Idempotent: pragmas
// and schema apply safely on every open.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect history db: %w", err)
	}

	// SQLite supports one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set user_version: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Entry is one history row.
type Entry struct {
	SnapshotID     string    `json:"snapshot_id"`
	RunID          string    `json:"run_id"`
	RecordedAt     time.Time `json:"recorded_at"`
	ModelName      string    `json:"model_name"`
	ModelVersion   string    `json:"model_version"`
	Fingerprint    string    `json:"fingerprint"`
	IsolationAvg   float64   `json:"isolation_avg"`
	DensityAvg     float64   `json:"density_avg"`
	GapCount       int       `json:"gap_count"`
	HighGapCount   int       `json:"high_gap_count"`
	DuplicateCount int       `json:"duplicate_count"`
	Components     int       `json:"components"`
	IsolatedNodes  int       `json:"isolated_nodes"`
	AverageDegree  float64   `json:"average_degree"`
}

// Record indexes one saved snapshot. Re-recording the same snapshot id is a
// no-op: snapshots are write-once, so the first row is already correct.
func (s *Store) Record(meta snapshot.Meta, report *audit.Report) error {
	e := summarize(meta, report)
	_, err := s.db.Exec(`
		INSERT INTO audit_runs
		(snapshot_id, run_id, recorded_at, model_name, model_version, fingerprint,
		 isolation_avg, density_avg, gap_count, high_gap_count, duplicate_count,
		 components, isolated_nodes, average_degree)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_id) DO NOTHING
	`,
		e.SnapshotID,
		e.RunID,
		e.RecordedAt.UTC().Format(time.RFC3339),
		e.ModelName,
		e.ModelVersion,
		e.Fingerprint,
		e.IsolationAvg,
		e.DensityAvg,
		e.GapCount,
		e.HighGapCount,
		e.DuplicateCount,
		e.Components,
		e.IsolatedNodes,
		e.AverageDegree,
	)
	if err != nil {
		return fmt.Errorf("record audit run: %w", err)
	}
	return nil
}

// List returns history entries newest-first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Entry, error) {
	q := `
		SELECT snapshot_id, run_id, recorded_at, model_name, model_version,
		       fingerprint, isolation_avg, density_avg, gap_count,
		       high_gap_count, duplicate_count, components, isolated_nodes,
		       average_degree
		FROM audit_runs
		ORDER BY snapshot_id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(
			&e.SnapshotID, &e.RunID, &recordedAt, &e.ModelName, &e.ModelVersion,
			&e.Fingerprint, &e.IsolationAvg, &e.DensityAvg, &e.GapCount,
			&e.HighGapCount, &e.DuplicateCount, &e.Components, &e.IsolatedNodes,
			&e.AverageDegree,
		); err != nil {
			return nil, fmt.Errorf("scan audit run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete drops the row for a snapshot id, if present.
func (s *Store) Delete(snapshotID string) error {
	if _, err := s.db.Exec(`DELETE FROM audit_runs WHERE snapshot_id = ?`, snapshotID); err != nil {
		return fmt.Errorf("delete audit run %s: %w", snapshotID, err)
	}
	return nil
}

// summarize reduces a report to its history row.
func summarize(meta snapshot.Meta, report *audit.Report) Entry {
	e := Entry{
		SnapshotID:     meta.ID,
		RunID:          report.RunID,
		RecordedAt:     report.Timestamp,
		ModelName:      report.ModelName,
		ModelVersion:   report.ModelVersion,
		Fingerprint:    meta.Fingerprint,
		GapCount:       len(report.Gaps),
		HighGapCount:   report.HighPriorityGaps(),
		DuplicateCount: len(report.Duplicates),
	}
	if n := len(report.Coverage); n > 0 {
		var iso, den float64
		for _, c := range report.Coverage {
			iso += c.IsolationPct
			den += c.Density
		}
		e.IsolationAvg = iso / float64(n)
		e.DensityAvg = den / float64(n)
	}
	if len(report.Connectivity) > 0 {
		c := report.Connectivity[0]
		e.Components = c.Components
		e.IsolatedNodes = c.IsolatedNodes
		e.AverageDegree = c.AverageDegree
	}
	return e
}
