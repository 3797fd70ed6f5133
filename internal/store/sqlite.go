// Package store persists run history in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sapictureday/leadgen/internal/model"
)

// Store records completed pipeline runs.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	Close() error
}

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	location      TEXT NOT NULL,
	mode          TEXT NOT NULL,
	leads_found   INTEGER NOT NULL DEFAULT 0,
	emails_found  INTEGER NOT NULL DEFAULT 0,
	crm_created   INTEGER NOT NULL DEFAULT 0,
	crm_dupes     INTEGER NOT NULL DEFAULT 0,
	crm_errors    INTEGER NOT NULL DEFAULT 0,
	crm_simulated INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run record, assigning it an ID and timestamp.
func (s *SQLiteStore) SaveRun(ctx context.Context, run model.Run) (*model.Run, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, location, mode, leads_found, emails_found, crm_created, crm_dupes, crm_errors, crm_simulated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Location, string(run.Mode),
		run.LeadsFound, run.EmailsFound,
		run.CRMCreated, run.CRMDupes, run.CRMErrors, run.CRMSimulated,
		run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location, mode, leads_found, emails_found, crm_created, crm_dupes, crm_errors, crm_simulated, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var mode string
		if err := rows.Scan(
			&r.ID, &r.Location, &mode,
			&r.LeadsFound, &r.EmailsFound,
			&r.CRMCreated, &r.CRMDupes, &r.CRMErrors, &r.CRMSimulated,
			&r.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Mode = model.RunMode(mode)
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}
