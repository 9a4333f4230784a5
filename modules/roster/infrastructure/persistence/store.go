// Package persistence keeps the roster in a single-file sqlite database:
// one row per serviceman with the assessment block as a JSON column, plus
// an append-only audit trail.
package persistence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rosterhq/rostertrack/pkg/configuration"
)

const schema = `
CREATE TABLE IF NOT EXISTS servicemen (
	name             TEXT PRIMARY KEY,
	category         TEXT NOT NULL,
	unit             TEXT NOT NULL,
	rank             TEXT NOT NULL DEFAULT '',
	pes_status       TEXT NOT NULL DEFAULT '',
	medical_status   TEXT NOT NULL,
	ord_date         TEXT,
	window_one_end   TEXT,
	window_two_end   TEXT,
	service_complete INTEGER NOT NULL DEFAULT 0,
	assessment       TEXT NOT NULL,
	last_updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_servicemen_unit ON servicemen (unit);
CREATE INDEX IF NOT EXISTS idx_servicemen_category ON servicemen (category);

CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	actor      TEXT NOT NULL,
	action     TEXT NOT NULL,
	subject    TEXT NOT NULL,
	details    TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_subject ON audit_events (subject);
CREATE INDEX IF NOT EXISTS idx_audit_events_action ON audit_events (action);
`

// Store owns the sqlite handle the repositories share.
type Store struct {
	db *sql.DB
}

// Open opens the roster database, creating the file and schema when
// missing. The busy timeout covers concurrent CLI invocations against
// the same file.
func Open(opts configuration.StoreOptions) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(opts.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		opts.Path, opts.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The driver serializes writes anyway; one connection avoids
	// SQLITE_BUSY between pooled handles.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
