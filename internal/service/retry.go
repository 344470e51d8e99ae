package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/planportal/internal/repository"
)

// RetryPolicy bounds retries of storage calls that failed with
// repository.ErrStorageUnavailable. Other errors are returned at once.
type RetryPolicy struct {
	MaxRetries int
	// Backoff is multiplied by the attempt number before each retry.
	Backoff time.Duration
	// Timeout bounds each attempt; zero means no per-call deadline.
	Timeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff:    50 * time.Millisecond,
		Timeout:    5 * time.Second,
	}
}

// NoRetry makes one attempt with no deadline.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

func withRetry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	attempts := 1 + max(p.MaxRetries, 0)

	for i := 0; i < attempts; i++ {
		if i > 0 && p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(p.Backoff * time.Duration(i)):
			}
		}

		v, err := callWithTimeout(ctx, p.Timeout, fn)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !errors.Is(err, repository.ErrStorageUnavailable) || ctx.Err() != nil {
			break
		}
	}
	return zero, lastErr
}

func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
