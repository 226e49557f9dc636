package classify

import (
	"sync"
	"time"
)

// DedupeCache remembers recently seen transaction hashes. Entries expire after
// a TTL and the cache never grows past a fixed capacity, so it is safe to keep
// for the life of the process.
type DedupeCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	entries map[string]time.Time
	now     func() time.Time
}

// NewDedupeCache builds a cache evicting entries older than ttl, holding at
// most capacity entries.
func NewDedupeCache(ttl time.Duration, capacity int) *DedupeCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &DedupeCache{
		ttl:     ttl,
		cap:     capacity,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Seen reports whether txHash was already recorded within the TTL window, and
// records it if not.
func (c *DedupeCache) Seen(txHash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if at, ok := c.entries[txHash]; ok && now.Sub(at) < c.ttl {
		return true
	}

	c.evictLocked(now)
	c.entries[txHash] = now
	return false
}

// Len returns the current entry count.
func (c *DedupeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *DedupeCache) evictLocked(now time.Time) {
	for hash, at := range c.entries {
		if now.Sub(at) >= c.ttl {
			delete(c.entries, hash)
		}
	}
	// Still full after expiry sweep: drop the oldest entry.
	for len(c.entries) >= c.cap {
		var oldestHash string
		var oldestAt time.Time
		for hash, at := range c.entries {
			if oldestHash == "" || at.Before(oldestAt) {
				oldestHash = hash
				oldestAt = at
			}
		}
		delete(c.entries, oldestHash)
	}
}
