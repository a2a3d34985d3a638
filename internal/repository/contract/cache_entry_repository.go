package contract

import (
	"context"
	"time"
)

// CacheEntryRepository is the L3 structured cache layer. Expired rows are treated
// as misses and lazily reaped.
type CacheEntryRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
