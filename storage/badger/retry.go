package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Write transactions that lose an optimistic-concurrency race are retried.
const (
	conflictAttempts   = 5
	conflictRetryDelay = 5 * time.Millisecond
)

// retryOnConflict runs operation until it succeeds, fails with an error other
// than badger.ErrConflict, or maxAttempts is reached. The delay doubles after
// each conflict. Returns the error from the last attempt.
func retryOnConflict(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	maxAttempts = max(maxAttempts, 1)

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if !errors.Is(lastErr, badger.ErrConflict) {
			if lastErr == nil && attempt > 1 {
				slog.Debug("transaction succeeded after retry", "attempt", attempt)
			}
			return lastErr
		}

		slog.Debug("transaction conflict, will retry", "attempt", attempt, "maxAttempts", maxAttempts)
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
