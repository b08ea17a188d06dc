package service

import (
	"sync"

	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
)

// DefaultCacheCapacity is the default bound on cached derived keys.
const DefaultCacheCapacity = 10

// Cache is a bounded key lifecycle cache mapping identity pairs to derived keys.
//
// Eviction is strict insertion-order FIFO, not LRU: when a Put would exceed
// capacity, the single oldest-inserted entry is evicted regardless of how
// recently it was read. The eviction order is observable behavior relied on
// by callers, so it must not change silently.
//
// The cache is a constructed instance rather than package state so tests can
// isolate caches; the root client owns the process-wide one. Clear must be
// called on logout so a key never outlives its session.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]keyringDomain.DerivedKey
	order    []string
}

// NewCache creates a Cache bounded to capacity entries.
// A capacity of zero or less falls back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]keyringDomain.DerivedKey),
	}
}

// Get returns the cached key for the identity pair, if present.
func (c *Cache) Get(userID, email string) (keyringDomain.DerivedKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, ok := c.entries[cacheKey(userID, email)]
	return key, ok
}

// Put stores a derived key for the identity pair, evicting the oldest-inserted
// entry when the cache is full. Updating an existing slot does not change its
// insertion order.
func (c *Cache) Put(userID, email string, key keyringDomain.DerivedKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot := cacheKey(userID, email)
	if _, exists := c.entries[slot]; exists {
		c.entries[slot] = key
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[slot] = key
	c.order = append(c.order, slot)
}

// Clear empties the cache. Must be called on logout so keys cannot be reused
// after a different user logs in on the same device.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]keyringDomain.DerivedKey)
	c.order = nil
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func cacheKey(userID, email string) string {
	return keyringDomain.KeyMaterial{UserID: userID, Email: email}.CacheKey()
}
