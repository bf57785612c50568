package tvr

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/pkg/logger"
)

// Store is the persistent cache tier. Implementations must be safe for
// concurrent use. A miss is (nil, nil); errors are reserved for real
// backend failures.
type Store interface {
	// Get returns the stored result for key if it was computed within
	// maxAge, or nil on a miss.
	Get(ctx context.Context, key string, maxAge time.Duration) (*domain.TVRResult, error)

	// Put stores a freshly computed result under key.
	Put(ctx context.Context, key string, result domain.TVRResult) error

	// Clear removes all stored results.
	Clear(ctx context.Context) error

	// Count returns the number of stored results.
	Count(ctx context.Context) (int, error)
}

type memoryEntry struct {
	result   domain.TVRResult
	cachedAt time.Time
}

// Cache is the two-tier TVR result cache: a mutex-guarded in-process map
// with a short freshness window in front of a persistent Store with a
// longer, independent one. Reads go memory-first, store-second; a store
// hit repopulates the memory tier, keeping the tiers eventually
// consistent. The cache is an optimization, not a consistency-critical
// store: two concurrent callers may both miss and both compute, and the
// last writer wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	store    Store // nil disables the persistent tier
	memTTL   time.Duration
	storeTTL time.Duration
}

// NewCache creates a two-tier cache. store may be nil for memory-only
// operation.
func NewCache(store Store, memTTL, storeTTL time.Duration) *Cache {
	if memTTL <= 0 {
		memTTL = 5 * time.Minute
	}
	if storeTTL <= 0 {
		storeTTL = 30 * time.Minute
	}
	return &Cache{
		entries:  make(map[string]memoryEntry),
		store:    store,
		memTTL:   memTTL,
		storeTTL: storeTTL,
	}
}

// Get returns the cached result for key, if either tier holds a fresh one.
func (c *Cache) Get(ctx context.Context, key string) (domain.TVRResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.cachedAt) < c.memTTL {
		return entry.result, true
	}

	if c.store == nil {
		return domain.TVRResult{}, false
	}

	stored, err := c.store.Get(ctx, key, c.storeTTL)
	if err != nil {
		logger.Warn("persistent cache read failed", "key", key, "error", err.Error())
		return domain.TVRResult{}, false
	}
	if stored == nil {
		return domain.TVRResult{}, false
	}

	// Write through to the memory tier so the next read stays local.
	c.mu.Lock()
	c.entries[key] = memoryEntry{result: *stored, cachedAt: time.Now()}
	c.mu.Unlock()

	return *stored, true
}

// Put writes to the memory tier unconditionally and to the persistent tier
// best-effort: a store write failure is logged and swallowed, the
// computed result is still served from memory.
func (c *Cache) Put(ctx context.Context, key string, result domain.TVRResult) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{result: result, cachedAt: time.Now()}
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, key, result); err != nil {
		logger.Warn("persistent cache write failed", "key", key, "error", err.Error())
	}
}

// Clear empties the memory tier synchronously and the persistent tier
// best-effort.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		logger.Warn("persistent cache clear failed", "error", err.Error())
	}
}

// Stats reports the cache's current occupancy.
type Stats struct {
	MemoryEntries int      `json:"memory_entries"`
	MemoryKeys    []string `json:"memory_keys"`
	// StoreEntries is -1 if the persistent tier is absent or unreachable.
	StoreEntries int `json:"store_entries"`
}

// Stats returns in-process entry count and keys plus a best-effort
// persistent-tier row count.
func (c *Cache) Stats(ctx context.Context) Stats {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)

	stats := Stats{MemoryEntries: len(keys), MemoryKeys: keys, StoreEntries: -1}
	if c.store != nil {
		if n, err := c.store.Count(ctx); err == nil {
			stats.StoreEntries = n
		}
	}
	return stats
}
