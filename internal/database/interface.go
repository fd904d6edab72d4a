package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXDB is an interface that both pgxpool.Pool and pgx.Tx implement.
// This allows repositories to work with either a connection pool or a
// transaction, which is essential for testing with transaction-based
// isolation and for writing an expense and its allocations atomically.
type PGXDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner can start a database transaction. Implemented by pgxpool.Pool,
// and by pgx.Tx via savepoints.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB combines querying with transaction start. The service layer runs on a
// pool in production and on a test transaction in tests.
type DB interface {
	PGXDB
	TxBeginner
}

// Ensure types implement the interface at compile time.
var (
	_ PGXDB = (*pgxpool.Pool)(nil)
	_ PGXDB = (pgx.Tx)(nil)
	_ DB    = (*pgxpool.Pool)(nil)
	_ DB    = (pgx.Tx)(nil)
)
