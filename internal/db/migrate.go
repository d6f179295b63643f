package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// whole list is replayed on each open.
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
	// Browser-style local storage: one JSON document per key.
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL
		           CHECK(kind IN ('profile','webhook','plan','checkout')),
		target     TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL
		           CHECK(status IN ('ok','failed','skipped')),
		email      TEXT NOT NULL DEFAULT '',
		detail     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,

	// Plan purchases are logged against the plan type.
	`ALTER TABLE submissions ADD COLUMN plan TEXT NOT NULL DEFAULT ''`,
}
