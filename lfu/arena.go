package lfu

// nilIndex marks the absence of a link inside the arenas.
const nilIndex = -1

// entry is one cached key/value pair.
//
// Entries live in Cache.entries and refer to their neighbours and to the
// bucket that currently holds them by index, never by pointer.
type entry[K comparable, V any] struct {
	key   K
	value V

	// freq is how many times the entry has been used. Starts at 1 and only grows.
	freq int

	// prev is the more recently touched neighbour, next the less recent one.
	prev, next int

	// bucket is the index of the bucket whose list holds this entry.
	bucket int
}

// bucket groups all entries that share one frequency.
type bucket struct {
	freq int

	// head is the most recently touched entry, tail the eviction candidate.
	head, tail int
	len        int

	// prev has a lower frequency, next a higher one.
	prev, next int
}

// allocEntry takes a slot from the free list, or grows the arena.
func (c *Cache[K, V]) allocEntry(key K, value V) int {
	e := entry[K, V]{
		key:    key,
		value:  value,
		freq:   1,
		prev:   nilIndex,
		next:   nilIndex,
		bucket: nilIndex,
	}
	if n := len(c.freeEntries); n > 0 {
		i := c.freeEntries[n-1]
		c.freeEntries = c.freeEntries[:n-1]
		c.entries[i] = e
		return i
	}
	c.entries = append(c.entries, e)
	return len(c.entries) - 1
}

// freeEntry zeroes the slot so the key and value can be collected.
func (c *Cache[K, V]) freeEntry(i int) {
	c.entries[i] = entry[K, V]{prev: nilIndex, next: nilIndex, bucket: nilIndex}
	c.freeEntries = append(c.freeEntries, i)
}

func (c *Cache[K, V]) allocBucket(freq int) int {
	b := bucket{
		freq: freq,
		head: nilIndex,
		tail: nilIndex,
		prev: nilIndex,
		next: nilIndex,
	}
	if n := len(c.freeBuckets); n > 0 {
		i := c.freeBuckets[n-1]
		c.freeBuckets = c.freeBuckets[:n-1]
		c.buckets[i] = b
		return i
	}
	c.buckets = append(c.buckets, b)
	return len(c.buckets) - 1
}

func (c *Cache[K, V]) freeBucket(i int) {
	c.buckets[i] = bucket{head: nilIndex, tail: nilIndex, prev: nilIndex, next: nilIndex}
	c.freeBuckets = append(c.freeBuckets, i)
}
