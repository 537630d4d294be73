// Package source defines where canonical transactions come from and wraps
// upstream fetches with timeouts and bounded retry.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
)

// Source returns the full current list of canonical transactions stored in
// the named database.
type Source interface {
	Transactions(ctx context.Context, database string) ([]domain.Transaction, error)
}

// RetryPolicy bounds upstream retries.
type RetryPolicy struct {
	// Attempts is the number of retries after the first call.
	Attempts int
	// Backoff is multiplied by the retry number before each retry.
	Backoff time.Duration
	// Timeout bounds each individual call; zero means no per-call timeout.
	Timeout time.Duration
}

// Retrying decorates a Source with per-call timeouts and linear backoff
// retries. Missing databases and caller cancellation are never retried.
type Retrying struct {
	next   Source
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps next with policy.
func NewRetrying(next Source, policy RetryPolicy) *Retrying {
	return &Retrying{next: next, policy: policy, sleep: sleepContext}
}

// Transactions implements Source.
func (r *Retrying) Transactions(ctx context.Context, database string) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= r.policy.Attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * r.policy.Backoff
			log.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Str("database", database).
				Msg("Retrying upstream fetch")
			if err := r.sleep(ctx, backoff); err != nil {
				return nil, fmt.Errorf("Transactions: %w", err)
			}
		}

		txs, err := r.call(ctx, database)
		if err == nil {
			return txs, nil
		}
		lastErr = err

		if !retryable(ctx, err) {
			break
		}
	}

	return nil, lastErr
}

func (r *Retrying) call(ctx context.Context, database string) ([]domain.Transaction, error) {
	if r.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
		defer cancel()
	}
	return r.next.Transactions(ctx, database)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, domain.ErrDatabaseNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure Retrying implements Source interface.
var _ Source = (*Retrying)(nil)
