package importer

import (
	"context"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Retry configuration
const (
	maxRetries     = 4
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = time.Second
)

// retryWithBackoff runs fn until it succeeds, fails with an error that
// isn't worth retrying, or the retries run out.
func retryWithBackoff(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			zlog.Debug().Err(lastErr).Str("op", operation).Int("attempt", attempt).Msg("retrying")
			select {
			case <-ctx.Done():
				return errors.Wrapf(lastErr, "%s: cancelled after %d attempts", operation, attempt)
			case <-time.After(backoff):
			}
			// Exponential backoff with cap
			backoff = min(backoff*2, maxBackoff)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return errors.Wrap(err, operation)
		}
	}

	return errors.Wrapf(lastErr, "%s: failed after %d attempts", operation, maxRetries+1)
}

// isRetryableError checks if an error is likely temporary and worth retrying.
// SQLite reports contention as "database is locked" or SQLITE_BUSY.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EBUSY) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{"locked", "busy", "in use", "temporarily unavailable", "interrupted"} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
