package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX - общий интерфейс для *pgxpool.Pool и pgx.Tx,
// чтобы репозитории работали одинаково внутри и вне транзакции.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxStarter is a DBTX that can also open a transaction.
// *pgxpool.Pool and pgx.Tx (as a savepoint) both satisfy it.
type TxStarter interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}
