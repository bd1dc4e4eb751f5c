package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrInvalidCapacity is returned by New for capacities below 1.
	ErrInvalidCapacity = errors.New("cache: capacity must be at least 1")
	// ErrInvalidTTL is returned by New when no usable default TTL is given.
	ErrInvalidTTL = errors.New("cache: default ttl must be positive")
)

// Config controls capacity, expiration and maintenance behavior.
type Config struct {
	// Capacity is the hard upper bound on stored entries. Must be >= 1.
	Capacity int
	// DefaultTTL is the expiration applied by Put. Must be > 0.
	DefaultTTL time.Duration
	// CleanupInterval enables a background sweep that reclaims expired
	// entries nobody reads anymore. <= 0 disables the sweep; expiration
	// is still enforced lazily on access.
	CleanupInterval time.Duration
}

// entry is the per-key payload stored in the recency list.
// The key is kept here because eviction starts from list nodes.
type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Cache is a concurrency-safe in-memory cache with per-entry TTL and LRU
// eviction. A map gives O(1) key lookup and a doubly linked list maintains
// recency ordering; both are mutated together under one mutex, so every key
// in the map has exactly one node in the list and vice versa.
//
// A single exclusive mutex guards all operations: Get promotes the entry in
// the recency list, so even reads are writes at the data-structure level and
// a reader/writer lock would buy nothing. No I/O happens under the lock.
//
// The Cache owns its background sweep goroutine, if enabled. Call Close to
// stop it; the cache itself remains usable after Close.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]*node[entry[K, V]]
	order *recencyList[entry[K, V]]

	capacity   int
	defaultTTL time.Duration
	stats      Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New constructs a cache from cfg. Invalid capacity or TTL is rejected here
// rather than deferred to the first operation.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if cfg.DefaultTTL <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &Cache[K, V]{
		items:      make(map[K]*node[entry[K, V]], cfg.Capacity),
		order:      newRecencyList[entry[K, V]](),
		capacity:   cfg.Capacity,
		defaultTTL: cfg.DefaultTTL,
	}

	if cfg.CleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.sweepLoop(ctx, cfg.CleanupInterval)
	}

	return c, nil
}

// Close stops the background sweep, if any. Safe to call multiple times.
func (c *Cache[K, V]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		c.wg.Wait()
	}
}

// Get returns the value for key if present and not expired, promoting the
// entry to most recently used. Expired entries are removed on discovery and
// reported as misses.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	if n.value.expired(now) {
		c.removeNodeLocked(n)
		c.stats.Expirations++
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.order.moveToFront(n)
	c.stats.Hits++
	return n.value.value, true
}

// Put stores value under key with the cache's default TTL.
func (c *Cache[K, V]) Put(key K, value V) {
	c.PutTTL(key, value, c.defaultTTL)
}

// PutTTL stores value under key, expiring at now+ttl. A zero or negative ttl
// produces an entry that is already stale: the next Get reports a miss, but
// the entry still occupies a capacity slot until it is read or evicted.
//
// If key is already present its value and expiry are overwritten and the
// entry is promoted; the count is unchanged so capacity is not re-checked.
// If key is absent and the cache is full, the least recently used entry is
// evicted first, regardless of its own expiry state.
func (c *Cache[K, V]) PutTTL(key K, value V, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value.value = value
		n.value.expiresAt = expiresAt
		c.order.moveToFront(n)
		return
	}

	if len(c.items) >= c.capacity {
		if back := c.order.back; back != nil {
			c.removeNodeLocked(back)
			c.stats.Evictions++
		}
	}

	c.items[key] = c.order.pushFront(entry[K, V]{key: key, value: value, expiresAt: expiresAt})
}

// Remove deletes key if present, returning the removed value. Removing an
// absent key is a no-op.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	value := n.value.value
	c.removeNodeLocked(n)
	return value, true
}

// Len returns the number of tracked entries. Entries past their TTL that
// have not yet been read (or swept) are still counted, so this is an upper
// bound on live entries, not an exact count.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the tracked keys in most- to least-recently-used order.
// Debug helper; the slice is a snapshot.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]K, 0, c.order.len())
	for n := c.order.front; n != nil; n = n.next {
		out = append(out, n.value.key)
	}
	return out
}

// Clear removes all entries. Counters are preserved.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*node[entry[K, V]], c.capacity)
	c.order = newRecencyList[entry[K, V]]()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache[K, V]) removeNodeLocked(n *node[entry[K, V]]) {
	delete(c.items, n.value.key)
	c.order.remove(n)
}

// removeExpiredLocked drops every entry past its TTL. O(n), used only by the
// background sweep.
func (c *Cache[K, V]) removeExpiredLocked(now time.Time) {
	for _, n := range c.items {
		if n.value.expired(now) {
			c.removeNodeLocked(n)
			c.stats.Expirations++
		}
	}
}
