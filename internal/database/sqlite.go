// Package database opens the sqlite store and creates its schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// TimeLayout is how timestamps are written to TEXT columns. It matches
// sqlite's CURRENT_TIMESTAMP so julianday() and date() work on every row.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Open opens the sqlite database at path and applies connection pragmas.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between the flush loop and handlers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return db, nil
}

var schema = []struct {
	name string
	stmt string
}{
	{"visitors", `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		session_id TEXT,
		user_agent TEXT,
		path TEXT,
		visited_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"visitors index", `CREATE INDEX IF NOT EXISTS idx_visitors_visited_at ON visitors(visited_at)`},
	{"analytics_events", `
	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		category TEXT NOT NULL,
		label TEXT,
		value INTEGER,
		session_id TEXT,
		occurred_at TEXT NOT NULL
	)`},
	{"analytics_events index", `CREATE INDEX IF NOT EXISTS idx_analytics_events_occurred_at ON analytics_events(occurred_at)`},
	{"preferences", `
	CREATE TABLE IF NOT EXISTS preferences (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, key)
	)`},
}

// Migrate creates every table the server needs. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.stmt); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

// OpenMigrated opens the database at path and runs Migrate.
func OpenMigrated(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
