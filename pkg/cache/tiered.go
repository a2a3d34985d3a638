package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"hybrid-search-be/internal/pkg/logger"
	"hybrid-search-be/internal/repository/contract"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TTLs per layer. L1 is deliberately short: it only needs to absorb repeat
// queries within a burst, the slower layers carry the long tail.
type Options struct {
	L1Size int
	L1TTL  time.Duration
	L2TTL  time.Duration
	L3TTL  time.Duration
}

func DefaultOptions() Options {
	return Options{
		L1Size: 1000,
		L1TTL:  60 * time.Second,
		L2TTL:  10 * time.Minute,
		L3TTL:  time.Hour,
	}
}

// TieredCache layers a bounded in-process LRU (L1) over a shared key-value
// backend (L2) and a structured store reserved for complex queries (L3).
// Get probes L1 -> L2 -> L3 and promotes hits into every faster layer, so a
// repeated query converges to an L1 hit. A layer failing is counted, logged,
// and skipped; it never fails the whole call.
type TieredCache struct {
	l1   *expirable.LRU[string, []byte]
	l2   KV
	l3   contract.CacheEntryRepository
	opts Options

	mu    sync.Mutex
	stats Stats

	logger logger.ILogger
}

// Stats tracks hit/miss counters for tuning layer sizes.
type Stats struct {
	Hits        int64
	Misses      int64
	L1Hits      int64
	L2Hits      int64
	L3Hits      int64
	LayerErrors int64

	// rolling window, reset by the optimizer each pass
	windowHits    int64
	windowLookups int64
}

// HitRate is the cumulative hit rate since process start.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func NewTieredCache(l2 KV, l3 contract.CacheEntryRepository, opts Options, log logger.ILogger) *TieredCache {
	if opts.L1Size <= 0 {
		opts = DefaultOptions()
	}
	return &TieredCache{
		l1:     expirable.NewLRU[string, []byte](opts.L1Size, nil, opts.L1TTL),
		l2:     l2,
		l3:     l3,
		opts:   opts,
		logger: log,
	}
}

// Get probes the layers in order and promotes on deeper hits.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if payload, ok := c.l1.Get(key); ok {
		c.record(1, true)
		return payload, true
	}

	if c.l2 != nil {
		payload, ok, err := c.l2.Get(ctx, key)
		if err != nil {
			c.layerError("l2", "get", err)
		} else if ok {
			c.l1.Add(key, payload) // promote
			c.record(2, true)
			return payload, true
		}
	}

	if c.l3 != nil {
		payload, ok, err := c.l3.Get(ctx, key)
		if err != nil {
			c.layerError("l3", "get", err)
		} else if ok {
			// promote into both faster layers before returning
			c.l1.Add(key, payload)
			if c.l2 != nil {
				if err := c.l2.Put(ctx, key, payload, c.opts.L2TTL); err != nil {
					c.layerError("l2", "promote", err)
				}
			}
			c.record(3, true)
			return payload, true
		}
	}

	c.record(0, false)
	return nil, false
}

// Set always writes L1 and L2; L3 only when the query qualified as complex.
func (c *TieredCache) Set(ctx context.Context, key string, payload []byte, complex bool) {
	c.l1.Add(key, payload)

	if c.l2 != nil {
		if err := c.l2.Put(ctx, key, payload, c.opts.L2TTL); err != nil {
			c.layerError("l2", "set", err)
		}
	}

	if complex && c.l3 != nil {
		if err := c.l3.Put(ctx, key, payload, c.opts.L3TTL); err != nil {
			c.layerError("l3", "set", err)
		}
	}
}

// Invalidate purges entries whose key starts with prefix. Each layer purges
// independently; a failing layer is counted, not fatal to the whole call.
func (c *TieredCache) Invalidate(ctx context.Context, prefix string) int64 {
	var purged int64

	for _, key := range c.l1.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.l1.Remove(key)
			purged++
		}
	}

	if c.l2 != nil {
		n, err := c.l2.DeleteByPrefix(ctx, prefix)
		purged += n
		if err != nil {
			c.layerError("l2", "invalidate", err)
		}
	}

	if c.l3 != nil {
		n, err := c.l3.DeleteByPrefix(ctx, prefix)
		purged += n
		if err != nil {
			c.layerError("l3", "invalidate", err)
		}
	}

	return purged
}

func (c *TieredCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *TieredCache) record(layer int, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.windowLookups++
	if hit {
		c.stats.Hits++
		c.stats.windowHits++
		switch layer {
		case 1:
			c.stats.L1Hits++
		case 2:
			c.stats.L2Hits++
		case 3:
			c.stats.L3Hits++
		}
	} else {
		c.stats.Misses++
	}
}

func (c *TieredCache) layerError(layer, op string, err error) {
	c.mu.Lock()
	c.stats.LayerErrors++
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Warn("cache", "cache layer error", map[string]interface{}{
			"layer": layer,
			"op":    op,
			"error": err.Error(),
		})
	}
}

// StartOptimizer runs a periodic pass that shrinks L1 when the rolling hit rate
// drops below floor. A low hit rate means L1 is churning without paying for its
// memory. Stops when ctx is cancelled.
func (c *TieredCache) StartOptimizer(ctx context.Context, interval time.Duration, floor float64) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.optimizePass(floor)
			}
		}
	}()
}

func (c *TieredCache) optimizePass(floor float64) {
	c.mu.Lock()
	lookups := c.stats.windowLookups
	hits := c.stats.windowHits
	c.stats.windowLookups = 0
	c.stats.windowHits = 0
	c.mu.Unlock()

	if lookups < 100 {
		return // not enough traffic to judge
	}

	rate := float64(hits) / float64(lookups)
	if rate >= floor {
		return
	}

	newSize := c.l1.Len() / 2
	if newSize < 64 {
		newSize = 64
	}
	c.l1.Resize(newSize)

	if c.logger != nil {
		c.logger.Info("cache", "shrunk L1 after low hit rate", map[string]interface{}{
			"hitRate": rate,
			"newSize": newSize,
		})
	}
}
