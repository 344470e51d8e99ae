package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so it is
// safe to call on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('principal','coordinator')),
		created_at TEXT NOT NULL
	)`,

	// One live document per (year, coordinator). Content holds the nested
	// profile, staff, school-profile and goals/tasks arrays as JSON.
	`CREATE TABLE IF NOT EXISTS plans (
		year           INTEGER NOT NULL,
		coordinator_id TEXT NOT NULL,
		content        TEXT NOT NULL DEFAULT '{}',
		status         TEXT NOT NULL DEFAULT 'draft'
		               CHECK(status IN ('draft','pending','approved','changes_requested')),
		feedback       TEXT NOT NULL DEFAULT '',
		submissions    INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (year, coordinator_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`,

	// No foreign key to plans: a notification's status is a snapshot and the
	// plan may move on independently.
	`CREATE TABLE IF NOT EXISTS notifications (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		sender_name  TEXT NOT NULL,
		sender_role  TEXT NOT NULL,
		title        TEXT NOT NULL,
		message      TEXT NOT NULL,
		recipient_id TEXT NOT NULL CHECK(recipient_id <> ''),
		link         TEXT,
		status       TEXT,
		feedback     TEXT,
		read         INTEGER NOT NULL DEFAULT 0,
		pinned       INTEGER NOT NULL DEFAULT 0,
		archived     INTEGER NOT NULL DEFAULT 0,
		dedupe_key   TEXT,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, archived, created_at)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedupe ON notifications(dedupe_key) WHERE dedupe_key IS NOT NULL`,
}
