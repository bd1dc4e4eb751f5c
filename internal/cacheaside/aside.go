package cacheaside

import (
	"context"
	"errors"

	"github.com/leonardcser/sidecache/internal/cache"
)

// ErrNotFound is the typed absence reported by a Store when a key has no
// authoritative value. Implementations should return it (possibly wrapped)
// from Find.
var ErrNotFound = errors.New("cacheaside: not found")

// Store is the backing data source the orchestrator reads through and
// writes through. Implementations must be safe for concurrent use; calls
// may take arbitrary time and should honor ctx.
type Store[K comparable, V any] interface {
	// Find returns the authoritative value for key, or ErrNotFound.
	Find(ctx context.Context, key K) (V, error)
	// Save persists value under key and returns the canonical post-write
	// value as the store recorded it.
	Save(ctx context.Context, key K, value V) (V, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key K) error
}

// Orchestrator front-ends a Store with a cache using the cache-aside
// pattern: reads are served from the cache when possible and loaded from
// the store on miss; writes go to the store first and invalidate the
// cached entry on success.
//
// The store is never called while a cache lock is held, and the cache is
// only touched after a store call resolves, so a failed or canceled store
// call leaves the cache exactly as it was.
//
// Concurrent misses on the same key are not deduplicated: each caller may
// invoke the store independently. Callers needing single-flight semantics
// must layer it on top.
type Orchestrator[K comparable, V any] struct {
	cache *cache.Cache[K, V]
	store Store[K, V]
}

// New wires a cache in front of a store. Per dataset there must be exactly
// one cache instance shared by all callers; a second independent cache
// would not see invalidations.
func New[K comparable, V any](c *cache.Cache[K, V], s Store[K, V]) (*Orchestrator[K, V], error) {
	if c == nil {
		return nil, errors.New("cacheaside: nil cache")
	}
	if s == nil {
		return nil, errors.New("cacheaside: nil store")
	}
	return &Orchestrator[K, V]{cache: c, store: s}, nil
}

// GetOrLoad returns the value for key, consulting the cache first. On a
// miss it loads from the store, populates the cache with the default TTL
// and returns the value.
//
// A store ErrNotFound is propagated as-is and is not cached: absence is
// re-checked against the store on every call. Any other store error passes
// through unchanged with the cache unmodified.
func (o *Orchestrator[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	if v, ok := o.cache.Get(key); ok {
		return v, nil
	}

	v, err := o.store.Find(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	o.cache.Put(key, v)
	return v, nil
}

// WriteThrough saves value to the store and, only if that succeeds,
// invalidates the cached entry so the next read reloads the authoritative
// post-write state. It returns the value as the store recorded it.
//
// On a store error the cache is deliberately left alone: the authoritative
// data did not change, so already-cached reads stay valid until their TTL.
func (o *Orchestrator[K, V]) WriteThrough(ctx context.Context, key K, value V) (V, error) {
	saved, err := o.store.Save(ctx, key, value)
	if err != nil {
		var zero V
		return zero, err
	}

	o.cache.Remove(key)
	return saved, nil
}

// DeleteThrough removes key from the store and, only if that succeeds,
// from the cache.
func (o *Orchestrator[K, V]) DeleteThrough(ctx context.Context, key K) error {
	if err := o.store.Delete(ctx, key); err != nil {
		return err
	}
	o.cache.Remove(key)
	return nil
}
