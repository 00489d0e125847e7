package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/repository"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx. Repositories
// take it so the assignment transaction can reuse the same code paths under
// an explicit tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// requireRow turns a zero-row UPDATE or DELETE into repository.ErrNotFound.
func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
