package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fastai/src/core/ports"
)

var _ ports.SessionRunner = (*Engine)(nil)

// WithSession runs fn inside a transaction bound to one pooled connection.
//
// On success the transaction is committed. If fn returns an error or panics,
// the transaction is rolled back first and the error or panic value is
// propagated unchanged. The connection goes back to the pool on every path.
func (e *Engine) WithSession(ctx context.Context, fn func(ctx context.Context, s ports.Session) error) error {
	tx, err := e.begin.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin session: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The request context may already be cancelled; rollback must still run.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			e.log.WarnContext(ctx, "session rollback failed", "error", rbErr)
		}
	}()

	if err := fn(ctx, session{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	committed = true
	return nil
}

// session adapts pgx.Tx to ports.Session.
type session struct {
	tx pgx.Tx
}

func (s session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := s.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s session) Query(ctx context.Context, sql string, args ...any) (ports.Rows, error) {
	return s.tx.Query(ctx, sql, args...)
}

func (s session) QueryRow(ctx context.Context, sql string, args ...any) ports.Row {
	return s.tx.QueryRow(ctx, sql, args...)
}
