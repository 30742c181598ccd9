package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the journal tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		verb         TEXT NOT NULL,
		container_id INTEGER NOT NULL DEFAULT 0,
		caller       TEXT NOT NULL DEFAULT '',
		outcome      TEXT NOT NULL,
		status       INTEGER NOT NULL DEFAULT 0,
		detail       TEXT NOT NULL DEFAULT '',
		at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_container_id ON events(container_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_caller ON events(caller)`,
	`CREATE INDEX IF NOT EXISTS idx_events_verb ON events(verb)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
