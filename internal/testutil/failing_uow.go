package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/gymform/internal/db"
)

// FailOnNthExecUoW runs transactions against DB but makes the FailOn-th write
// (1-based) inside each transaction return Err. Reads are never counted.
// FormStore saves two keys per transaction, so FailOn 2 leaves the first
// write to be rolled back.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	// Attempts counts transactions started through this UoW.
	Attempts int
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Attempts++
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(ctx, &nthWriteFails{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type nthWriteFails struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (w *nthWriteFails) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	w.writes++
	if w.writes == w.failOn {
		return nil, w.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
