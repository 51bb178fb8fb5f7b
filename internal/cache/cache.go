package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL cache with a hard entry cap. Expiry is lazy (checked
// on access, no background sweep) and eviction is by insertion order:
// when full, the oldest inserted entry goes first.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	entries map[string]entry
	order   []string
	clock   func() time.Time
}

type entry struct {
	value    any
	storedAt time.Time
}

// New creates a cache holding at most capacity entries for at most ttl.
func New(ttl time.Duration, capacity int) *Cache {
	return &Cache{
		ttl:     ttl,
		cap:     capacity,
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(ttl time.Duration, capacity int, clock func() time.Time) *Cache {
	c := New(ttl, capacity)
	c.clock = clock
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock().Sub(e.storedAt) >= c.ttl {
		c.remove(key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, evicting the oldest entry if at capacity.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for len(c.entries) >= c.cap && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = entry{value: value, storedAt: c.clock()}
	c.order = append(c.order, key)
}

// Invalidate drops key if present.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
