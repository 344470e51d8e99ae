package db

import (
	"context"
	"database/sql"
)

// DBTX is what the plan, notification and user repositories run their SQL
// on. Built on *sql.DB a repository commits each write on its own, which is
// the best-effort workflow path. Built on the *sql.Tx handed out by
// UnitOfWork, a plan save and its notifications commit or roll back together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
