// Package retry wraps sethvargo/go-retry with the attempt-indexed backoff used by
// question providers that talk to rate-limited upstreams.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Delay returns the wait before the retry that follows the given failed attempt (1-based).
type Delay func(attempt int) time.Duration

// Linear grows the delay by base for every failed attempt: base, 2*base, 3*base...
func Linear(base time.Duration) Delay {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Constant always waits d.
func Constant(d time.Duration) Delay {
	return func(int) time.Duration { return d }
}

// Do runs fn at most attempts times. Only errors marked with Retryable are retried;
// any other error, or context cancellation during a wait, ends the loop immediately.
// When attempts are exhausted the last underlying error is returned.
func Do(ctx context.Context, attempts int, delay Delay, fn func(ctx context.Context, attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if delay == nil {
		delay = Constant(0)
	}

	attempt := 0
	backoff := goretry.WithMaxRetries(uint64(attempts-1), goretry.BackoffFunc(func() (time.Duration, bool) {
		return delay(attempt), false
	}))

	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		return fn(ctx, attempt)
	})
}

// Retryable marks err as worth another attempt. A nil err stays nil.
func Retryable(err error) error {
	return goretry.RetryableError(err)
}
