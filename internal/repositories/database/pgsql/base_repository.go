package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so a repository runs
// unchanged inside or outside a unit of work. Begin on a pgx.Tx opens a savepoint.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

// Begin starts a new database transaction, or a savepoint when db is already one.
func Begin(ctx context.Context, db querier) (pgx.Tx, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

const uniqueViolation = "23505"

// wrapWriteError maps unique violations to apperrors.ErrDuplicate.
func wrapWriteError(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("failed to "+format+": %w", append(args, err)...)
}

// wrapReadError maps pgx.ErrNoRows to apperrors.ErrNotFound.
func wrapReadError(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to "+format+": %w", append(args, err)...)
}

// atomic runs fn in a transaction, or a savepoint inside an open one.
func (r *BaseRepository) atomic(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := Begin(ctx, r.db)
	if err != nil {
		return err
	}
	defer Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return Commit(ctx, tx)
}
