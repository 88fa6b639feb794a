// Package history persists gate runs to a local SQLite database so past
// results can be inspected with `depgate history`.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/depgate/internal/gate"
)

// Store is the SQLite history handle.
type Store struct {
	db *sql.DB
}

// Run is one recorded gate run.
type Run struct {
	ID        int64
	Suite     string
	StartedAt time.Time
	Total     int
	Passed    int
	Failed    int
	Elapsed   time.Duration
	Results   []gate.Result
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	suite TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	total INTEGER NOT NULL,
	passed INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	query TEXT NOT NULL,
	selector TEXT NOT NULL,
	view TEXT NOT NULL DEFAULT '',
	expect TEXT NOT NULL DEFAULT '',
	count INTEGER NOT NULL,
	gated INTEGER NOT NULL,
	passed INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`

// Path returns the history database path under dir (the project root):
// <dir>/.depgate/history.db.
func Path(dir string) string {
	return filepath.Join(dir, ".depgate", "history.db")
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one run and its per-query results.
func (s *Store) Record(suite string, startedAt time.Time, summary *gate.Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (suite, started_at, total, passed, failed, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		suite, startedAt.UTC().Format(time.RFC3339), summary.Total, summary.Passed, summary.Failed,
		summary.Elapsed.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, r := range summary.Results {
		_, err := tx.Exec(
			`INSERT INTO results (run_id, position, query, selector, view, expect, count, gated, passed, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, r.Query, r.Selector, r.View, r.Expect, r.Count,
			boolInt(r.Gated), boolInt(r.Passed), r.Err)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history: %w", err)
	}
	return runID, nil
}

// Recent returns the most recent runs, newest first, with their results.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, suite, started_at, total, passed, failed, elapsed_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var elapsedMs int64
		if err := rows.Scan(&r.ID, &r.Suite, &started, &r.Total, &r.Passed, &r.Failed, &elapsedMs); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		results, err := s.runResults(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}
	return runs, nil
}

// Prune deletes all but the newest keep runs.
func (s *Store) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.Exec(
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	// results has no FK enforcement by default in sqlite; clean up manually.
	_, err = s.db.Exec(`DELETE FROM results WHERE run_id NOT IN (SELECT id FROM runs)`)
	if err != nil {
		return fmt.Errorf("failed to prune results: %w", err)
	}
	return nil
}

func (s *Store) runResults(runID int64) ([]gate.Result, error) {
	rows, err := s.db.Query(
		`SELECT query, selector, view, expect, count, gated, passed, error
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []gate.Result
	for rows.Next() {
		var r gate.Result
		var gated, passed int
		if err := rows.Scan(&r.Query, &r.Selector, &r.View, &r.Expect, &r.Count, &gated, &passed, &r.Err); err != nil {
			return nil, err
		}
		r.Gated = gated != 0
		r.Passed = passed != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
