package calendrier

import (
	"sync"
	"time"
)

// PeriodCache memoizes calendar payloads keyed by the exact (start, end)
// pair. There is no partial invalidation: underlying writes are rare enough
// that dropping everything is the simpler correct policy.
type PeriodCache interface {
	Get(start, end time.Time) (*PeriodeData, bool)
	Put(start, end time.Time, payload *PeriodeData)
	InvalidateAll()
}

type cacheEntry struct {
	payload   *PeriodeData
	expiresAt time.Time
}

// MemoryPeriodCache is a thread-safe in-memory PeriodCache with lazy
// expiration. Concurrent readers share the lock; refreshes are last write
// wins, which is fine because recomputation is idempotent.
type MemoryPeriodCache struct {
	entries map[string]*cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

func NewMemoryPeriodCache(ttl time.Duration) *MemoryPeriodCache {
	return &MemoryPeriodCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

func cacheKey(start, end time.Time) string {
	return start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
}

// Get returns the cached payload for the window, deleting and missing on an
// expired entry.
func (c *MemoryPeriodCache) Get(start, end time.Time) (*PeriodeData, bool) {
	key := cacheKey(start, end)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Recheck: another goroutine may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

func (c *MemoryPeriodCache) Put(start, end time.Time, payload *PeriodeData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(start, end)] = &cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *MemoryPeriodCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Len reports the live entry count, expired entries included until their
// next lookup.
func (c *MemoryPeriodCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
