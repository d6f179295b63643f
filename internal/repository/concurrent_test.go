package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/gymform/internal/db"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileTestDB creates a file-backed database. Unlike :memory:, it shares
// state across every connection in the pool, which concurrent tests need.
func newFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// Profile save and webhook outcomes are recorded from separate goroutines.
func TestConcurrentAccess_SubmissionWritersAndKVReaders(t *testing.T) {
	database := newFileTestDB(t)
	ctx := context.Background()
	subs := NewSQLiteSubmissionRepo(database)
	kv := NewSQLiteKVRepo(database)
	require.NoError(t, kv.Put(ctx, "gymFormData", `{"gender":"female"}`))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				err := subs.Create(ctx, &domain.Submission{
					Kind:   domain.SubmissionWebhook,
					Target: fmt.Sprintf("writer-%d", w),
					Status: domain.SubmissionOK,
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := kv.Get(ctx, "gymFormData"); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access: %v", err)
	}

	all, err := subs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 40)
}
