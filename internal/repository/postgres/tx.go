package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventboard/internal/domain"
	"eventboard/internal/metrics"
)

const (
	maxTxAttempts  = 3
	txRetryBackoff = 25 * time.Millisecond
)

type txRunner struct {
	DB *sql.DB
}

// NewTxRunner returns a TxRunner over db. Serialization failures and
// deadlocks are retried up to maxTxAttempts with a short backoff; anything
// else is returned to the caller as-is.
func NewTxRunner(db *sql.DB) domain.TxRunner {
	return &txRunner{DB: db}
}

func (r *txRunner) InTx(ctx context.Context, fn func(tx domain.RequestTx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
		metrics.TxRetries.Inc()
		select {
		case <-time.After(txRetryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTransient, lastErr)
}

func (r *txRunner) runOnce(ctx context.Context, fn func(tx domain.RequestTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&requestTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Postgres class 40 errors: serialization_failure and deadlock_detected.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
