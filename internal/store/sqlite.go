package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	kind           TEXT    NOT NULL,
	symbol         TEXT    NOT NULL,
	family         TEXT    NOT NULL,
	params         TEXT    NOT NULL,
	tc             REAL    NOT NULL,
	performance    REAL    NOT NULL,
	outperformance REAL    NOT NULL,
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, created_at);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, ensures the
// schema exists, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(runsSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run record and fills in its ID. A zero CreatedAt is
// stamped with the current time.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (kind, symbol, family, params, tc, performance, outperformance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.Symbol, run.Family, run.Params, run.TC,
		run.Performance, run.Outperformance, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}

	run.ID, err = res.LastInsertId()
	return err
}

// ListRuns returns the most recent runs, newest first, up to limit. An empty
// symbol matches all symbols.
func (s *SQLiteStore) ListRuns(ctx context.Context, symbol string, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, symbol, family, params, tc, performance, outperformance, created_at
		 FROM runs
		 WHERE (? = '' OR symbol = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		symbol, symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Symbol, &r.Family, &r.Params, &r.TC,
			&r.Performance, &r.Outperformance, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
