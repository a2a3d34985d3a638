package concurrency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterCapsInFlight(t *testing.T) {
	l := NewLimiter(2)

	require.True(t, l.TryAcquire())
	require.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())

	l.Release()
	assert.True(t, l.TryAcquire())
}

func TestLimiterAcquireHonorsContext(t *testing.T) {
	l := NewLimiter(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.Error(t, err)
}

func TestLimiterDefaultsToOne(t *testing.T) {
	l := NewLimiter(0)
	assert.Equal(t, 1, l.Capacity())
	require.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
}
