package lfu

import "fmt"

// verify walks the whole structure and reports the first broken invariant.
// It is O(n) and only meant for tests.
func (c *Cache[K, V]) verify() error {
	if len(c.index) > c.capacity {
		return fmt.Errorf("size %d exceeds capacity %d", len(c.index), c.capacity)
	}
	if c.head != nilIndex && c.buckets[c.head].prev != nilIndex {
		return fmt.Errorf("chain head %d has a predecessor", c.head)
	}

	seen, chained := 0, 0
	prevBucket, prevFreq := nilIndex, 0
	for bi := c.head; bi != nilIndex; bi = c.buckets[bi].next {
		b := c.buckets[bi]

		if b.len == 0 || b.head == nilIndex || b.tail == nilIndex {
			return fmt.Errorf("bucket %d (freq %d) is empty but linked", bi, b.freq)
		}
		if b.freq <= prevFreq {
			return fmt.Errorf("bucket freq %d follows freq %d", b.freq, prevFreq)
		}
		if b.prev != prevBucket {
			return fmt.Errorf("bucket %d: prev link %d, want %d", bi, b.prev, prevBucket)
		}

		n, prevEntry := 0, nilIndex
		for ei := b.head; ei != nilIndex; ei = c.entries[ei].next {
			e := c.entries[ei]
			if e.bucket != bi {
				return fmt.Errorf("entry %v: bucket %d, found in %d", e.key, e.bucket, bi)
			}
			if e.freq != b.freq {
				return fmt.Errorf("entry %v: freq %d in bucket of freq %d", e.key, e.freq, b.freq)
			}
			if e.prev != prevEntry {
				return fmt.Errorf("entry %v: prev link %d, want %d", e.key, e.prev, prevEntry)
			}
			if got, ok := c.index[e.key]; !ok || got != ei {
				return fmt.Errorf("entry %v: index points at %d, want %d", e.key, got, ei)
			}
			prevEntry = ei
			n++
		}
		if prevEntry != b.tail {
			return fmt.Errorf("bucket %d: tail %d, walk ended at %d", bi, b.tail, prevEntry)
		}
		if n != b.len {
			return fmt.Errorf("bucket %d: len %d, counted %d", bi, b.len, n)
		}

		seen += n
		chained++
		prevBucket, prevFreq = bi, b.freq
	}

	if seen != len(c.index) {
		return fmt.Errorf("chain holds %d entries, index holds %d", seen, len(c.index))
	}
	if live := len(c.buckets) - len(c.freeBuckets); live != chained {
		return fmt.Errorf("%d live bucket slots, %d reachable from head", live, chained)
	}
	if live := len(c.entries) - len(c.freeEntries); live != len(c.index) {
		return fmt.Errorf("%d live entry slots for %d keys", live, len(c.index))
	}
	return nil
}
