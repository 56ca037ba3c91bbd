package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// TxFn is the body of a transaction. Returning nil commits.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxBinder is implemented by stores and repositories that can rebind
// themselves to a transaction, such as TaskStore.
type TxBinder[S any] interface {
	WithTx(tx *sql.Tx) S
}

// RunInTransaction runs fn inside a transaction on db and commits when fn
// returns nil. An error from fn rolls the transaction back and is returned
// unchanged. A panic in fn rolls back and is re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		p := recover()
		if p == nil && err == nil {
			return
		}

		rbErr := tx.Rollback()
		switch {
		case errors.Is(rbErr, sql.ErrTxDone):
			// Commit already ended the transaction.
		case rbErr != nil:
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.Any("cause", rollbackCause(p, err)))
			if p == nil {
				err = fmt.Errorf("failed to roll back transaction: %w", errors.Join(err, rbErr))
			}
		case p != nil:
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		default:
			log.Debug("rolled back transaction", slog.String("error", err.Error()))
		}

		if p != nil {
			// ALLOW-PANIC: re-raised after rollback
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithinTx runs fn against s bound to a new transaction on db, with the
// same commit and rollback rules as RunInTransaction.
//
//	err := store.WithinTx(ctx, db, taskStore, func(ctx context.Context, txStore store.TaskStore) error {
//	    return txStore.Create(ctx, task)
//	})
func WithinTx[S TxBinder[S]](ctx context.Context, db *sql.DB, s S, fn func(ctx context.Context, txStore S) error) error {
	return RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}

func rollbackCause(p any, err error) any {
	if p != nil {
		return p
	}
	return err.Error()
}
