// Package history records comparison runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AndreyAkinshin/simregress/internal/compare"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at   TEXT    NOT NULL,
	baseline_tag  TEXT    NOT NULL,
	candidate_tag TEXT    NOT NULL,
	passed        INTEGER NOT NULL,
	failure_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS failures (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	check_name  TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	analysis_id TEXT    NOT NULL,
	column_name TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	detail      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id);
`

// Run is one recorded comparison.
type Run struct {
	ID           int64
	RecordedAt   time.Time
	BaselineTag  string
	CandidateTag string
	Passed       bool
	FailureCount int
}

// Failure is one recorded check failure.
type Failure struct {
	Check      string
	Category   string
	AnalysisID string
	Column     string
	Kind       string
	Detail     string
}

// Store is a run history backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. The parent directory is
// created when missing. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Record stores a report and its failures in one transaction and returns
// the run id.
func (s *Store) Record(ctx context.Context, report *compare.Report, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(recorded_at, baseline_tag, candidate_tag, passed, failure_count) VALUES(?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), report.BaselineTag, report.CandidateTag, report.Passed(), report.FailureCount())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO failures(run_id, check_name, category, analysis_id, column_name, kind, detail) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare failure insert: %w", err)
	}
	defer stmt.Close()

	for _, check := range report.Checks {
		for _, f := range check.Failures {
			if _, err := stmt.ExecContext(ctx, id, check.Name, f.Category, f.AnalysisID, f.Column, f.Kind.String(), f.Detail); err != nil {
				return 0, fmt.Errorf("insert failure: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, baseline_tag, candidate_tag, passed, failure_count
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			at string
		)
		if err := rows.Scan(&r.ID, &at, &r.BaselineTag, &r.CandidateTag, &r.Passed, &r.FailureCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", at, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Failures returns the failures recorded for a run in insertion order.
func (s *Store) Failures(ctx context.Context, runID int64) ([]Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT check_name, category, analysis_id, column_name, kind, detail
		 FROM failures WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Check, &f.Category, &f.AnalysisID, &f.Column, &f.Kind, &f.Detail); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
