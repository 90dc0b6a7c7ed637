package database

import (
	"context"
	"fmt"

	"event-checkin/core/constants"
	"event-checkin/core/logger"
)

// schema is portable between SQLite and Postgres; only the blob column type differs.
func schema(driver string) []string {
	blobType := "BLOB"
	if driver == constants.DatabaseDriverPostgres {
		blobType = "BYTEA"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS guests (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			table_id TEXT NOT NULL DEFAULT '',
			imported_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			email TEXT PRIMARY KEY,
			checked_in_at TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			table_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_checked_in_at ON attendance (checked_in_at)`,
		`CREATE TABLE IF NOT EXISTS draw_winners (
			email TEXT PRIMARY KEY,
			drawn_at TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			table_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS event_assets (
			slot TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			blob_key TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS asset_blobs (
			blob_key TEXT PRIMARY KEY,
			content_type TEXT NOT NULL DEFAULT '',
			data %s NOT NULL
		)`, blobType),
	}
}

// Migrate creates any missing tables. Statements are idempotent.
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema(d.driver) {
		if _, err := d.sqlx.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate:Error:", err)
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
