/*
Package lfu implements a Least-Frequently-Used cache with O(1) Get, Put and
eviction.

Entries are grouped into frequency buckets. Buckets form a chain ordered by
increasing frequency, and each bucket keeps its entries ordered by recency.
The victim is always the least recently touched entry of the lowest-frequency
bucket.

Both a read (Get) and an overwrite (Put on an existing key) count as one use.

A Cache is not safe for concurrent use. Callers sharing one must serialize
every call, see the root package ShardedCache for a ready-made wrapper.
*/
package lfu

import (
	"errors"
	"fmt"
)

// ErrNegativeCapacity is returned by New when asked for a capacity below zero.
var ErrNegativeCapacity = errors.New("lfu: negative capacity")

// EvictCallback is called with the key and value of every evicted entry.
type EvictCallback[K comparable, V any] func(key K, value V)

// Cache is a bounded LFU cache.
type Cache[K comparable, V any] struct {
	capacity int

	// index maps a key to its slot in entries. The slot carries the bucket
	// membership, so this single map serves both lookups.
	index map[K]int

	entries     []entry[K, V]
	freeEntries []int

	buckets     []bucket
	freeBuckets []int

	// head is the lowest-frequency bucket, nilIndex when the cache is empty.
	head int

	onEvict EvictCallback[K, V]
}

// New creates a cache holding at most capacity entries. A capacity of zero is
// valid and yields a cache that never stores anything.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	return NewWithEvict[K, V](capacity, nil)
}

// NewWithEvict is like New, and calls onEvict for each entry pushed out by
// capacity pressure or by Evict. Remove does not trigger it.
func NewWithEvict[K comparable, V any](capacity int, onEvict EvictCallback[K, V]) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}

	// Small caches get their arenas sized up front; large ones grow on demand.
	hint := min(capacity, 1024)

	return &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]int, hint),
		entries:  make([]entry[K, V], 0, hint),
		buckets:  make([]bucket, 0, hint),
		head:     nilIndex,
		onEvict:  onEvict,
	}, nil
}

// Get returns the value stored for key and records one use of it.
// The boolean is false on a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	ei, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.promote(ei)
	return c.entries[ei].value, true
}

/*
Put stores value under key.

  - capacity 0: nothing happens
  - key present: the value is replaced and the entry gains one use
  - key absent and cache full: the LFU victim is evicted first
  - key absent: the entry starts at frequency 1, most recent among its peers
*/
func (c *Cache[K, V]) Put(key K, value V) {
	if c.capacity == 0 {
		return
	}

	if ei, ok := c.index[key]; ok {
		c.entries[ei].value = value
		c.promote(ei)
		return
	}

	if len(c.index) == c.capacity {
		c.evict()
	}

	ei := c.allocEntry(key, value)
	c.index[key] = ei
	c.insertNew(ei)
}

// Remove deletes key from the cache. It reports whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	ei, ok := c.index[key]
	if !ok {
		return false
	}
	c.detach(ei)
	delete(c.index, key)
	c.freeEntry(ei)
	return true
}

// Evict removes the current LFU victim and returns it.
// The boolean is false when the cache is empty.
func (c *Cache[K, V]) Evict() (K, V, bool) {
	if len(c.index) == 0 {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return c.evict()
}

func (c *Cache[K, V]) evict() (K, V, bool) {
	ei := c.victim()
	if ei == nilIndex {
		panic(fmt.Sprintf("lfu: %d entries indexed but bucket chain is empty", len(c.index)))
	}

	key, value := c.entries[ei].key, c.entries[ei].value

	c.detach(ei)
	delete(c.index, key)
	c.freeEntry(ei)

	if c.onEvict != nil {
		c.onEvict(key, value)
	}
	return key, value, true
}

// Peek returns the value for key without counting it as a use.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	ei, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.entries[ei].value, true
}

// Contains reports whether key is cached, without counting it as a use.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Frequency returns how many times key has been used since it was inserted.
func (c *Cache[K, V]) Frequency(key K) (int, bool) {
	ei, ok := c.index[key]
	if !ok {
		return 0, false
	}
	return c.entries[ei].freq, true
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity the cache was created with.
func (c *Cache[K, V]) Cap() int { return c.capacity }
