package adapter

import (
	"context"
	"time"

	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

var retryInterval = time.Second

// callWithRetry runs fn once plus up to retries more times, waiting a little longer before each retry.
func callWithRetry(ctx context.Context, retries int, fn func(ctx context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			logging.From(ctx).Warn("retry model call", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", goerr.Wrap(ctx.Err(), "model call aborted", goerr.V("attempt", attempt))
			case <-time.After(time.Duration(attempt) * retryInterval):
			}
		}

		resp, err := fn(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return "", goerr.Wrap(lastErr, "model call failed", goerr.V("retries", retries))
}
