package questionbank

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryPolicy configures retries for question-bank requests. Attempt i
// (1-based) that fails waits i × BaseDelay before the next one; the final
// attempt's error is returned as-is.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetry is used for page and bulk fetches.
var DefaultRetry = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

// singleRetry is used for single-question fetches.
var singleRetry = RetryPolicy{Attempts: 2, BaseDelay: 500 * time.Millisecond}

func (p RetryPolicy) wait(attempt int) time.Duration {
	return time.Duration(attempt) * p.BaseDelay
}

func withRetry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := fn(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.wait(attempt)):
		}
	}
	return nil, lastErr
}

// shouldRetry reports whether err is transient. Client errors other than
// timeouts and rate limits won't succeed on retry.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var svc *ServiceError
	if errors.As(err, &svc) && svc.Status >= 400 && svc.Status < 500 {
		return svc.Status == http.StatusRequestTimeout || svc.Status == http.StatusTooManyRequests
	}
	return true
}
