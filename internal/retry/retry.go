// Package retry implements the backoff caller shared by the planning and
// assistant pipelines: a single outbound call retried with exponential delay.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
)

// permanentError marks a failure the caller must not re-invoke on, e.g. an
// envelope-shape or payload-parse failure. Retrying cannot fix those.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Call returns it immediately without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err carries a Permanent marker anywhere in its
// chain.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Caller retries a failing operation, waiting 2^attempt * baseDelay between
// attempts (attempt numbering starts at 0). No jitter; the total number of
// tries is bounded only by maxRetries.
type Caller struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*Caller)

func WithMaxRetries(n int) Option {
	return func(c *Caller) { c.maxRetries = n }
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Caller) { c.baseDelay = d }
}

// WithSleep replaces the delay function. Tests use this to record the backoff
// schedule instead of actually waiting.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Caller) { c.sleep = fn }
}

func NewCaller(logger *slog.Logger, opts ...Option) *Caller {
	c := &Caller{
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     logger,
		sleep:      sleepContext,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// sleepContext waits for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Call invokes op, retrying retryable failures up to the caller's maxRetries.
// A nil error returns the result; a Permanent error returns immediately; after
// exhaustion the last error is returned wrapped. Each failure is logged.
func Call[T any](ctx context.Context, c *Caller, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if IsPermanent(err) {
			c.logger.WarnContext(ctx, "Permanent failure, not retrying",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return zero, err
		}
		c.logger.WarnContext(ctx, "Attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", c.maxRetries),
			slog.Any("error", err))
		if attempt >= c.maxRetries {
			return zero, fmt.Errorf("all %d attempts failed: %w", c.maxRetries+1, err)
		}
		delay := c.baseDelay << attempt
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}
