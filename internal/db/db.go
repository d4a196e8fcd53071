package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

var defaultDB *sql.DB

const (
	createSessionTableSQL = `
CREATE TABLE IF NOT EXISTS cleanup_session_tab (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id VARCHAR(64) NOT NULL,
	report_file VARCHAR(1024) NOT NULL,
	mode VARCHAR(16) NOT NULL,
	dry_run INTEGER NOT NULL,
	start_time BIGINT NOT NULL,
	end_time BIGINT NOT NULL,
	groups_total INTEGER NOT NULL,
	groups_skipped INTEGER NOT NULL,
	size_skipped INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	duplicates_processed INTEGER NOT NULL,
	bytes_reclaimed BIGINT NOT NULL,
	failures INTEGER NOT NULL
);`

	createSessionIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_cleanup_session_tab_session_id
ON cleanup_session_tab(session_id);`

	createEventTableSQL = `
CREATE TABLE IF NOT EXISTS cleanup_event_tab (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id VARCHAR(64) NOT NULL,
	group_label VARCHAR(512) NOT NULL,
	path VARCHAR(1024) NOT NULL,
	state VARCHAR(32) NOT NULL,
	reason VARCHAR(1024) NOT NULL,
	bytes BIGINT NOT NULL,
	create_time BIGINT NOT NULL
);`

	createEventIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_cleanup_event_tab_session_id
ON cleanup_event_tab(session_id);`
)

// Open opens (creating if needed) the local audit database.
func Open(file string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("open audit db %s: %w", file, err)
	}
	return db, nil
}

// SetDefault assigns the global database instance.
func SetDefault(db *sql.DB) {
	defaultDB = db
}

// Default returns the configured global database instance.
func Default() *sql.DB {
	return defaultDB
}

// EnsureSchema initialises required tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		createSessionTableSQL,
		createSessionIndexSQL,
		createEventTableSQL,
		createEventIndexSQL,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
