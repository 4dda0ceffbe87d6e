package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCaller(opts ...Option) (*Caller, *[]time.Duration) {
	delays := &[]time.Duration{}
	base := []Option{
		WithSleep(func(_ context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		}),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCaller(logger, append(base, opts...)...), delays
}

func TestCall_SucceedsAfterKFailures(t *testing.T) {
	for _, k := range []int{0, 1, 2} {
		caller, delays := newTestCaller()
		calls := 0
		result, err := Call(context.Background(), caller, func(_ context.Context) (string, error) {
			calls++
			if calls <= k {
				return "", errors.New("transient")
			}
			return "ok", nil
		})

		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, "ok", result)
		assert.Equal(t, k+1, calls, "k=%d", k)

		// Delay before retry i must be 2^i * base.
		require.Len(t, *delays, k, "k=%d", k)
		for i, d := range *delays {
			assert.Equal(t, time.Second<<i, d, "k=%d delay %d", k, i)
		}
	}
}

func TestCall_ExhaustsAfterMaxRetries(t *testing.T) {
	caller, delays := newTestCaller()
	calls := 0
	_, err := Call(context.Background(), caller, func(_ context.Context) (string, error) {
		calls++
		return "", errors.New("still down")
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls, "3 retries after the first attempt")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *delays)
	assert.ErrorContains(t, err, "all 4 attempts failed")
}

func TestCall_PermanentErrorStopsImmediately(t *testing.T) {
	caller, delays := newTestCaller()
	sentinel := errors.New("bad payload")
	calls := 0
	_, err := Call(context.Background(), caller, func(_ context.Context) (int, error) {
		calls++
		return 0, Permanent(sentinel)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays, "no backoff for permanent failures")
}

func TestCall_ContextCancelledDuringBackoff(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	caller := NewCaller(logger, WithBaseDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Call(ctx, caller, func(_ context.Context) (string, error) {
			return "", errors.New("transient")
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Call did not return after context cancellation")
	}
}

func TestIsPermanent(t *testing.T) {
	assert.False(t, IsPermanent(errors.New("plain")))
	assert.True(t, IsPermanent(Permanent(errors.New("wrapped"))))
	assert.True(t, IsPermanent(fmt.Errorf("outer: %w", Permanent(errors.New("inner")))))
	assert.Nil(t, Permanent(nil))
}

func TestCall_CustomMaxRetries(t *testing.T) {
	caller, delays := newTestCaller(WithMaxRetries(1))
	calls := 0
	_, err := Call(context.Background(), caller, func(_ context.Context) (string, error) {
		calls++
		return "", errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, *delays, 1)
}
