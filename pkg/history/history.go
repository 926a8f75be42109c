// Package history persists a record of every aggregation run into a local
// SQLite database so the dashboard can chart platform health over time.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/feedscope/feedscope/models"
)

const DefaultDBName = "feedscope.db"

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    region TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    error TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    platform TEXT NOT NULL,
    ok BOOLEAN NOT NULL,
    item_count INTEGER NOT NULL DEFAULT 0,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_run_results_platform ON run_results(platform);
`

type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the history database at path.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.ensureSchemaExists(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return db, nil
}

func (db *DB) ensureSchemaExists() error {
	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&tableName)
	if err == sql.ErrNoRows {
		_, err = db.Exec(schema)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to check history schema: %w", err)
	}
	return nil
}

func (db *DB) Path() string { return db.path }

// RecordRun stores one envelope and its per-platform branches.
func (db *DB) RecordRun(kind string, env models.Envelope) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		"INSERT INTO runs (kind, region, success, error) VALUES (?, ?, ?, ?)",
		kind, env.Region.String(), env.Success, env.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	for platform, result := range env.Platforms {
		if _, err := tx.Exec(
			"INSERT INTO run_results (run_id, platform, ok, item_count, error) VALUES (?, ?, ?, ?, ?)",
			runID, platform, result.OK, len(result.Items), result.Error,
		); err != nil {
			return fmt.Errorf("failed to insert run result for %s: %w", platform, err)
		}
	}
	return tx.Commit()
}

// PlatformCount aggregates one platform's branch outcomes.
type PlatformCount struct {
	Platform string
	Runs     int
	OKRuns   int
	Items    int
}

// PlatformCounts returns per-platform totals across all recorded runs.
func (db *DB) PlatformCounts() ([]PlatformCount, error) {
	rows, err := db.Query(`
		SELECT platform, COUNT(*), SUM(ok), SUM(item_count)
		FROM run_results GROUP BY platform ORDER BY platform
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform counts: %w", err)
	}
	defer rows.Close()

	var counts []PlatformCount
	for rows.Next() {
		var c PlatformCount
		if err := rows.Scan(&c.Platform, &c.Runs, &c.OKRuns, &c.Items); err != nil {
			return nil, fmt.Errorf("failed to scan platform count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Run is one recorded aggregation call.
type Run struct {
	ID        int64
	Kind      string
	Region    string
	Success   bool
	Error     string
	CreatedAt time.Time
}

// RecentRuns returns the latest n runs, newest first.
func (db *DB) RecentRuns(n int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, kind, region, success, COALESCE(error, ''), created_at
		FROM runs ORDER BY run_id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Region, &r.Success, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
