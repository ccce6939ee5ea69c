// Package postgres содержит реализации хранилищ каталога поверх PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	errCtxBeginTx  = "error starting transaction"
	errCtxCommitTx = "error committing transaction"
)

// Querier - общее подмножество методов пула и транзакции.
type Querier interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

// PgxPoolInterface описывает пул соединений. Реализуется *pgxpool.Pool и pgxmock.
type PgxPoolInterface interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// withTx выполняет fn в транзакции. При ошибке fn транзакция откатывается.
func withTx(ctx context.Context, pool PgxPoolInterface, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxBeginTx, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtxCommitTx, err)
	}
	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func exists(ctx context.Context, q Querier, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := q.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
