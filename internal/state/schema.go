package state

import (
	"context"
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS queue_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_id TEXT,
			repeat_mode TEXT NOT NULL DEFAULT 'off',
			shuffle INTEGER NOT NULL DEFAULT 0,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS queue_tracks (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			track_number INTEGER,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
