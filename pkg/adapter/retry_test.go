package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestCallWithRetry(t *testing.T) {
	retryInterval = time.Millisecond
	ctx := context.Background()

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		resp, err := callWithRetry(ctx, 2, func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", goerr.New("temporary")
			}
			return "ok", nil
		})
		gt.NoError(t, err)
		gt.Equal(t, resp, "ok")
		gt.Equal(t, calls, 3)
	})

	t.Run("gives up after retries", func(t *testing.T) {
		calls := 0
		cause := goerr.New("permanent")
		_, err := callWithRetry(ctx, 1, func(ctx context.Context) (string, error) {
			calls++
			return "", cause
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, cause))
		gt.Equal(t, calls, 2)
	})

	t.Run("zero retries calls once", func(t *testing.T) {
		calls := 0
		_, err := callWithRetry(ctx, 0, func(ctx context.Context) (string, error) {
			calls++
			return "", goerr.New("fail")
		})
		gt.Error(t, err)
		gt.Equal(t, calls, 1)
	})

	t.Run("stops when context is done", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		_, err := callWithRetry(cctx, 5, func(ctx context.Context) (string, error) {
			calls++
			cancel()
			return "", ctx.Err()
		})
		gt.Error(t, err)
		gt.Equal(t, calls, 1)
	})
}
