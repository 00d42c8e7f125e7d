package atlas

import "sync"

// Cache memoizes resolution results per key with single-flight semantics:
// concurrent Gets on an unresolved key collapse into one load, and every
// caller observes the same result. Negative results ("no such world") are
// memoized like positive ones and never retried while the entry lives.
//
// There is no TTL and no size-based eviction; this is correctness
// memoization, not a capacity cache. The only eviction path is Clean, which
// drops entries whose key fails the liveness predicate. Keys whose liveness
// the cache cannot judge (the predicate is nil, or reports true) stay
// forever, which is the intended behavior for stable ids and names.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
	load    func(K) (V, bool)
	alive   func(K) bool // nil means every key is live
}

type entry[V any] struct {
	done chan struct{} // closed when val/ok are final
	val  V
	ok   bool
}

func NewCache[K comparable, V any](load func(K) (V, bool), alive func(K) bool) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[V]),
		load:    load,
		alive:   alive,
	}
}

// Get returns the memoized result for k, loading it once on first use.
// Safe for concurrent use; callers for an in-flight key block until the
// single load completes.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	e, present := c.entries[k]
	if present {
		c.mu.Unlock()
		<-e.done
		return e.val, e.ok
	}
	e = &entry[V]{done: make(chan struct{})}
	c.entries[k] = e
	c.mu.Unlock()

	// The placeholder is already published: even if load panics, waiters
	// unblock with the zero (negative) result and the entry stays memoized.
	defer close(e.done)
	e.val, e.ok = c.load(k)
	return e.val, e.ok
}

// Clean removes settled entries whose key is no longer live. In-flight
// entries are left alone. Returns the number of entries removed.
func (c *Cache[K, V]) Clean() int {
	if c.alive == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		select {
		case <-e.done:
		default:
			continue
		}
		if !c.alive(k) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries, in-flight included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether k currently has an entry.
func (c *Cache[K, V]) Contains(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[k]
	return ok
}
