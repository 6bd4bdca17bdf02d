package store

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// isBusy reports whether the error is SQLite lock contention, which is
// transient and safe to retry for single-statement writes.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withBusyRetry runs fn, retrying on lock contention with fibonacci backoff.
// Used only on hot single-statement write paths; multi-step sequences handle
// their own failure modes.
func withBusyRetry(fn func() error) error {
	b := retry.WithMaxRetries(5, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(context.Background(), b, func(ctx context.Context) error {
		if err := fn(); err != nil {
			if isBusy(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
