package migration

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds the retry loop: the delay doubles each attempt starting
// at BaseDelay, capped at MaxDelay, for at most MaxAttempts tries.
type RetryPolicy struct {
	MaxAttempts uint
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Do runs op under the policy and returns the last error once retries are
// exhausted. Pure with respect to the operation: composable with the
// concurrency limiter gate.
func Do(ctx context.Context, policy RetryPolicy, op func() error) error {
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.BaseDelay
	b.MaxInterval = policy.MaxDelay
	b.Multiplier = 2

	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			return struct{}{}, op()
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(policy.MaxAttempts),
	)
	return err
}
