package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV struct {
	entries map[string][]byte
	err     error
	puts    int
}

func newMapKV() *mapKV {
	return &mapKV{entries: map[string][]byte{}}
}

func (m *mapKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *mapKV) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.puts++
	m.entries[key] = payload
	return nil
}

func (m *mapKV) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var deleted int64
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

// mapEntryRepo fakes the structured L3 store.
type mapEntryRepo struct {
	mapKV
}

func (m *mapEntryRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func newTestCache(l2 *mapKV, l3 *mapEntryRepo) *TieredCache {
	return NewTieredCache(l2, l3, Options{
		L1Size: 8,
		L1TTL:  time.Minute,
		L2TTL:  time.Minute,
		L3TTL:  time.Minute,
	}, nil)
}

func TestSetWritesFastLayersOnly(t *testing.T) {
	l2 := newMapKV()
	l3 := &mapEntryRepo{mapKV: *newMapKV()}
	l3.entries = map[string][]byte{}
	c := newTestCache(l2, l3)

	c.Set(context.Background(), "search:default:k1", []byte("v1"), false)

	assert.Len(t, l2.entries, 1)
	assert.Empty(t, l3.entries) // simple queries never reach L3
}

func TestSetComplexWritesAllLayers(t *testing.T) {
	l2 := newMapKV()
	l3 := &mapEntryRepo{mapKV: *newMapKV()}
	l3.entries = map[string][]byte{}
	c := newTestCache(l2, l3)

	c.Set(context.Background(), "search:default:k1", []byte("v1"), true)

	assert.Len(t, l2.entries, 1)
	assert.Len(t, l3.entries, 1)
}

func TestGetPromotesFromDeeperLayer(t *testing.T) {
	l2 := newMapKV()
	l3 := &mapEntryRepo{mapKV: *newMapKV()}
	l3.entries = map[string][]byte{"search:default:deep": []byte("payload")}
	c := newTestCache(l2, l3)

	payload, ok := c.Get(context.Background(), "search:default:deep")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), payload)

	// promoted into L2 on the way out
	assert.Len(t, l2.entries, 1)

	// and now served from L1 without touching L2 again
	before := l2.puts
	_, ok = c.Get(context.Background(), "search:default:deep")
	require.True(t, ok)
	assert.Equal(t, before, l2.puts)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.L3Hits)
	assert.Equal(t, int64(1), stats.L1Hits)
}

func TestGetMissCountsOnce(t *testing.T) {
	c := newTestCache(newMapKV(), &mapEntryRepo{mapKV: *newMapKV()})

	_, ok := c.Get(context.Background(), "search:default:absent")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestLayerFailureIsIsolated(t *testing.T) {
	l2 := newMapKV()
	l2.err = errors.New("redis down")
	l3 := &mapEntryRepo{mapKV: *newMapKV()}
	l3.entries = map[string][]byte{"search:default:k": []byte("from-l3")}
	c := newTestCache(l2, l3)

	payload, ok := c.Get(context.Background(), "search:default:k")
	require.True(t, ok)
	assert.Equal(t, []byte("from-l3"), payload)

	stats := c.Stats()
	assert.Greater(t, stats.LayerErrors, int64(0))
}

func TestInvalidateByPrefix(t *testing.T) {
	l2 := newMapKV()
	l3 := &mapEntryRepo{mapKV: *newMapKV()}
	l3.entries = map[string][]byte{}
	c := newTestCache(l2, l3)

	c.Set(context.Background(), "search:tenant-a:k1", []byte("v"), true)
	c.Set(context.Background(), "search:tenant-a:k2", []byte("v"), false)
	c.Set(context.Background(), "search:tenant-b:k1", []byte("v"), false)

	purged := c.Invalidate(context.Background(), "search:tenant-a:")
	// k1 counted in L1+L2+L3, k2 in L1+L2
	assert.Equal(t, int64(5), purged)

	_, ok := c.Get(context.Background(), "search:tenant-a:k1")
	assert.False(t, ok)
	_, ok = c.Get(context.Background(), "search:tenant-b:k1")
	assert.True(t, ok)
}

func TestOptimizerShrinksColdL1(t *testing.T) {
	c := newTestCache(newMapKV(), &mapEntryRepo{mapKV: *newMapKV()})

	// 200 lookups, all misses: rolling hit rate 0 < floor
	for i := 0; i < 200; i++ {
		c.Get(context.Background(), "search:default:absent")
	}
	c.optimizePass(0.3)

	// floor of 64 despite halving from a small size
	assert.Equal(t, 0, c.l1.Len())
	c.Set(context.Background(), "search:default:k", []byte("v"), false)
	_, ok := c.Get(context.Background(), "search:default:k")
	assert.True(t, ok)
}

func TestOptimizerSkipsLowTraffic(t *testing.T) {
	c := newTestCache(newMapKV(), &mapEntryRepo{mapKV: *newMapKV()})

	for i := 0; i < 10; i++ {
		c.Get(context.Background(), "search:default:absent")
	}
	c.optimizePass(0.3) // under the 100-lookup threshold, no resize

	c.Set(context.Background(), "search:default:k", []byte("v"), false)
	_, ok := c.Get(context.Background(), "search:default:k")
	assert.True(t, ok)
}
