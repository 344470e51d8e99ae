package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/planportal/internal/db"
)

// FailOnNthExecUoW runs a transactional workflow transition against a real
// SQLite transaction but fails its Nth write, counting from 1. For a submit,
// write 1 is the plan upsert, write 2 the principal's notification and write
// 3 the coordinator's receipt. Reads pass through untouched.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

// failOnNthExec is scoped to one transaction, so a retried transition
// fails at the same write again.
type failOnNthExec struct {
	db.DBTX
	writes int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
