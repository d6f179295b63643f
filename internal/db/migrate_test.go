package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"kv_store", "submissions"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
	for _, idx := range []string{"idx_submissions_created", "idx_submissions_status"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_SubmissionChecks(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO submissions (id, kind, status, created_at) VALUES ('a', 'profile', 'ok', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO submissions (id, kind, status, created_at) VALUES ('b', 'carrier_pigeon', 'ok', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown kind should violate the CHECK constraint")

	_, err = db.Exec(`INSERT INTO submissions (id, kind, status, created_at) VALUES ('c', 'profile', 'maybe', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown status should violate the CHECK constraint")
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "gymform.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
