package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts uint) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("permanent")
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return wantErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, RetryPolicy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}, func() error {
		calls++
		if calls == 1 {
			cancel()
		}
		return errors.New("failing")
	})

	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestDoZeroPolicyUsesDefaults(t *testing.T) {
	err := Do(context.Background(), RetryPolicy{}, func() error { return nil })
	assert.NoError(t, err)
}
