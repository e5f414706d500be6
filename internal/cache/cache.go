// Package cache is the bounded memo table behind signature extraction and
// signature matching. Entries leave by LRU eviction or, when a TTL is set,
// by expiry; nothing grows for the life of the process.
package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Observer is told about every lookup. metrics.Collector implements it.
type Observer interface {
	CacheLookup(cache string, hit bool)
}

// Options bounds a cache.
type Options struct {
	// Size is the maximum number of entries. Values <= 0 use DefaultSize.
	Size int
	// TTL expires entries after the duration. Zero disables expiry.
	TTL time.Duration
}

// DefaultSize applies when Options.Size is not positive.
const DefaultSize = 1024

// store is the subset of the golang-lru API both variants share.
type store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V) bool
	Len() int
	Purge()
}

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	name     string
	store    store[K, V]
	observer Observer

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Stats is a snapshot of lookup counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// New creates a cache. obs may be nil.
func New[K comparable, V any](name string, opts Options, obs Observer) *Cache[K, V] {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	c := &Cache[K, V]{name: name, observer: obs}
	onEvict := func(K, V) { c.evictions.Add(1) }

	if opts.TTL > 0 {
		c.store = expirable.NewLRU[K, V](size, onEvict, opts.TTL)
		return c
	}

	l, err := lru.NewWithEvict[K, V](size, onEvict)
	if err != nil {
		// Only returned for size <= 0, which was ruled out above.
		panic(err)
	}
	c.store = l
	return c
}

// Name identifies the cache in logs and metrics.
func (c *Cache[K, V]) Name() string { return c.name }

// Get looks up key and records a hit or miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	if c.observer != nil {
		c.observer.CacheLookup(c.name, ok)
	}
	return v, ok
}

// Add stores value under key, evicting the oldest entry when full.
func (c *Cache[K, V]) Add(key K, value V) {
	c.store.Add(key, value)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int { return c.store.Len() }

// Purge drops every entry. Counters are kept.
func (c *Cache[K, V]) Purge() { c.store.Purge() }

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.store.Len(),
	}
}
