package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
)

var (
	ErrInternal = fmt.Errorf("%w: internal storage error", domain.ErrTransactionFailure)
	// ErrConflict marks serialization failures and deadlocks. The whole
	// transaction may be retried.
	ErrConflict = fmt.Errorf("%w: concurrent update conflict", domain.ErrTransactionFailure)
)

type DBContext interface {
	Begin(ctx context.Context) (DBContext, error)
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	*sql.DB
}

func (D *DB) Commit() error {
	return nil
}

func (D *DB) Rollback() error {
	return nil
}

func (D *DB) Begin(ctx context.Context) (DBContext, error) {
	tx, err := D.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, InternalError(err)
	}
	return &Tx{tx}, nil
}

type Tx struct {
	*sql.Tx
}

func (t *Tx) Begin(ctx context.Context) (DBContext, error) {
	return t, nil
}

// Rollback is a no-op on a transaction that was already committed.
func (t *Tx) Rollback() error {
	if err := t.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func InternalError(err error) error {
	return errors.Join(fmt.Errorf("internal storage error: %w", err), ErrInternal)
}

func ConflictError(err error) error {
	return errors.Join(fmt.Errorf("conflicting transaction: %w", err), ErrConflict)
}
