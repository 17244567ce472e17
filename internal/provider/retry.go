package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const (
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// retrier re-issues a call on transient failures with exponential backoff.
type retrier struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	sleeper   func(time.Duration)
}

func newRetrier(maxRetries int) retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return retrier{
		attempts:  maxRetries + 1,
		baseDelay: defaultRetryBaseDelay,
		maxDelay:  defaultRetryMaxDelay,
	}
}

func (r retrier) do(ctx context.Context, call func() error) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = call(); err == nil {
			return nil
		}
		if attempt == r.attempts || !retryable(ctx, err) {
			return err
		}
		if sleepErr := r.sleep(ctx, r.backoff(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableStatus(apiErrPtr.Code)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

// backoff returns base, base*2, base*4, ... capped at maxDelay.
func (r retrier) backoff(attempt int) time.Duration {
	if r.baseDelay <= 0 {
		return 0
	}
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		if delay > r.maxDelay/2 {
			return r.maxDelay
		}
		delay *= 2
	}
	if r.maxDelay > 0 && delay > r.maxDelay {
		return r.maxDelay
	}
	return delay
}

func (r retrier) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if r.sleeper != nil {
		r.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
