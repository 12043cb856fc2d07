// Package cache provides a cost-bounded LRU cache shared by all tiles of a
// viewer. Entries are tagged with a cost (the byte size of the pixel buffer)
// and the total cost never exceeds the configured maximum: insertions evict
// least-recently-used entries until the new entry fits.
package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a thread-safe LRU cache bounded by total cost rather than entry
// count. It is written to concurrently by render workers and read from the
// UI goroutine, so all map and list operations are serialized internally.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[K, V]
	lru       *lruList[K]
	maxCost   int64
	totalCost int64

	// Statistics (atomic for lock-free reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// entry holds a cached value with its cost and recency-list node.
type entry[K comparable, V any] struct {
	value V
	cost  int64
	node  *node[K]
}

// New creates a cache bounded by maxCost. A maxCost of 0 means unbounded.
func New[K comparable, V any](maxCost int64) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
		lru:     newLRUList[K](),
		maxCost: maxCost,
	}
}

// Get retrieves a cached value and refreshes its recency.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.lru.moveToFront(e.node)
	value := e.value
	c.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Contains reports whether the key is cached without refreshing its recency.
// Used to decide whether a prefetch would be redundant.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	c.mu.Unlock()
	return ok
}

// Put inserts or replaces a value with the given cost. Least-recently-used
// entries are evicted until the total cost fits the maximum; an entry whose
// cost alone exceeds the maximum is evicted immediately.
//
// The value is stored as-is, not copied. Callers must not modify it after
// insertion.
func (c *Cache[K, V]) Put(key K, value V, cost int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		c.totalCost += cost - existing.cost
		existing.value = value
		existing.cost = cost
		c.lru.moveToFront(existing.node)
		c.evictOverCost()
		return
	}

	n := c.lru.pushFront(key)
	c.entries[key] = &entry[K, V]{value: value, cost: cost, node: n}
	c.totalCost += cost
	c.evictOverCost()
}

// evictOverCost removes least-recently-used entries until totalCost fits.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictOverCost() {
	if c.maxCost <= 0 {
		return
	}
	for c.totalCost > c.maxCost {
		oldest, ok := c.lru.removeOldest()
		if !ok {
			break
		}
		if e, ok := c.entries[oldest]; ok {
			c.totalCost -= e.cost
			delete(c.entries, oldest)
			c.evictions.Add(1)
		}
	}
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.remove(e.node)
	c.totalCost -= e.cost
	delete(c.entries, key)
	return true
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.lru.clear()
	c.totalCost = 0
}

// SetMaxCost reconfigures the cost bound. Lowering it below the current
// total cost evicts immediately. A maxCost of 0 means unbounded.
func (c *Cache[K, V]) SetMaxCost(maxCost int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxCost = maxCost
	c.evictOverCost()
}

// MaxCost returns the configured cost bound.
func (c *Cache[K, V]) MaxCost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxCost
}

// TotalCost returns the summed cost of all cached entries.
func (c *Cache[K, V]) TotalCost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		TotalCost: c.TotalCost(),
		MaxCost:   c.MaxCost(),
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// TotalCost is the summed cost of all entries.
	TotalCost int64
	// MaxCost is the configured cost bound (0 = unbounded).
	MaxCost int64
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate, 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of evicted entries.
	Evictions uint64
}
