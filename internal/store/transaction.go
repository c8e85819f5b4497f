// Package store provides abstractions and implementations for data persistence
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lexday/lexday-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction. The
// transaction is committed if the function returns nil, rolled back
// otherwise.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor abstracts transaction execution so services can run the same
// code against the SQL backend and the in-memory backend. Implementations
// pass a nil *sql.Tx when there is no underlying transaction; stores treat a
// nil transaction as "operate on yourself".
type Transactor interface {
	// InTransaction runs fn atomically, committing on nil and rolling back
	// on error.
	InTransaction(ctx context.Context, fn TxFn) error
}

// SQLTransactor runs functions inside real database transactions.
type SQLTransactor struct {
	db *sql.DB
}

// NewSQLTransactor creates a Transactor backed by the given database.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SQLTransactor{db: db}
}

// Ensure SQLTransactor implements Transactor.
var _ Transactor = (*SQLTransactor)(nil)

// InTransaction implements Transactor.InTransaction.
func (t *SQLTransactor) InTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// RunInTransaction executes the given function within a database
// transaction, rolling back on error or panic and committing on success.
// The review submission path relies on this to keep the schedule update and
// the audit log append atomic.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
