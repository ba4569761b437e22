package docqa

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff delays for retried calls: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// RetryFunc is called before each retry with the attempt about to be made
// (starting at 2) and the error of the previous one.
type RetryFunc func(attempt int, err error)

// Retry calls fn until it succeeds, making one attempt plus one retry per
// delay. Application errors with code EINVALID or ENOTFOUND are returned
// immediately since retrying cannot fix them.
func Retry(ctx context.Context, delays []time.Duration, onRetry RetryFunc, fn func(ctx context.Context) error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if code := ErrorCode(err); code == EINVALID || code == ENOTFOUND {
			return err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
