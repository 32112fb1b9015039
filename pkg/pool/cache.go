package pool

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/solve-so/solve-core/pkg/collab"
	"github.com/solve-so/solve-core/pkg/record"
)

// cacheEntry pairs a cached Pool with the wall-clock time it was last
// refreshed, so staleness can be judged without re-deriving it from a
// blockchain slot the engine has no concept of.
type cacheEntry struct {
	pool       record.Pool
	lastUpdate time.Time
}

// CachedStore wraps a collab.Store and caches Pool reads, the record a
// quote path re-reads far more often than it writes. Every other record
// kind passes straight through; swap/liquidity commits always write
// through so the cache never serves a value staler than the last write
// this process made.
type CachedStore struct {
	collab.Store
	clock clock.Clock

	mu      sync.RWMutex
	entries map[record.Identity]*cacheEntry
}

// NewCachedStore wraps inner with a Pool read cache. A nil clk defaults to
// the real wall clock; tests pass clock.NewMock() to control staleness.
func NewCachedStore(inner collab.Store, clk clock.Clock) *CachedStore {
	if clk == nil {
		clk = clock.New()
	}
	return &CachedStore{
		Store:   inner,
		clock:   clk,
		entries: make(map[record.Identity]*cacheEntry),
	}
}

func (c *CachedStore) LoadPool(ctx context.Context, key record.Identity) (*record.Pool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		cp := entry.pool
		return &cp, nil
	}

	pool, err := c.Store.LoadPool(ctx, key)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = &cacheEntry{pool: *pool, lastUpdate: c.clock.Now()}
	c.mu.Unlock()
	return pool, nil
}

func (c *CachedStore) SavePool(ctx context.Context, key record.Identity, pool *record.Pool) error {
	if err := c.Store.SavePool(ctx, key, pool); err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = &cacheEntry{pool: *pool, lastUpdate: c.clock.Now()}
	c.mu.Unlock()
	return nil
}

// Invalidate drops a cached entry, forcing the next LoadPool to read
// through to the inner Store.
func (c *CachedStore) Invalidate(key record.Identity) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Size returns the number of pools currently cached.
func (c *CachedStore) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StaleKeys returns cached pool keys not refreshed within maxAge.
func (c *CachedStore) StaleKeys(maxAge time.Duration) []record.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.clock.Now()
	var stale []record.Identity
	for key, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > maxAge {
			stale = append(stale, key)
		}
	}
	return stale
}
