package lfu

/*
This file holds every operation that changes bucket membership.

Two linked lists are maintained here:
  - the entry list inside each bucket (most recent at the head)
  - the bucket chain, ordered by strictly increasing frequency

Nothing outside this file touches prev/next/bucket links. Get, Put, Remove and
eviction all go through detach, promote and insertNew.
*/

// pushFront makes entry ei the most recently touched entry of bucket bi.
func (c *Cache[K, V]) pushFront(bi, ei int) {
	old := c.buckets[bi].head

	c.entries[ei].prev = nilIndex
	c.entries[ei].next = old
	c.entries[ei].bucket = bi

	if old != nilIndex {
		c.entries[old].prev = ei
	} else {
		c.buckets[bi].tail = ei
	}
	c.buckets[bi].head = ei
	c.buckets[bi].len++
}

// removeEntry unlinks entry ei from its bucket's list in O(1).
func (c *Cache[K, V]) removeEntry(ei int) {
	e := &c.entries[ei]
	bi := e.bucket

	if e.prev != nilIndex {
		c.entries[e.prev].next = e.next
	} else {
		c.buckets[bi].head = e.next
	}
	if e.next != nilIndex {
		c.entries[e.next].prev = e.prev
	} else {
		c.buckets[bi].tail = e.prev
	}

	e.prev, e.next, e.bucket = nilIndex, nilIndex, nilIndex
	c.buckets[bi].len--
}

// linkBucket splices bucket bi between prev and next.
// prev == nilIndex makes bi the new chain head.
func (c *Cache[K, V]) linkBucket(bi, prev, next int) {
	c.buckets[bi].prev = prev
	c.buckets[bi].next = next

	if prev != nilIndex {
		c.buckets[prev].next = bi
	} else {
		c.head = bi
	}
	if next != nilIndex {
		c.buckets[next].prev = bi
	}
}

// unlinkBucket removes bucket bi from the chain, advancing the head if needed.
func (c *Cache[K, V]) unlinkBucket(bi int) {
	b := c.buckets[bi]

	if b.prev != nilIndex {
		c.buckets[b.prev].next = b.next
	} else {
		c.head = b.next
	}
	if b.next != nilIndex {
		c.buckets[b.next].prev = b.prev
	}
}

/*
detach takes entry ei out of its bucket. If the bucket becomes empty it is
unlinked from the chain and its slot recycled on the spot.

It returns the chain position the entry came from, as the pair of buckets a
replacement bucket for the entry's next frequency would sit between:
  - prev is the old bucket if it survived, otherwise the old bucket's predecessor
  - next is the old bucket's successor
*/
func (c *Cache[K, V]) detach(ei int) (prev, next int) {
	bi := c.entries[ei].bucket
	if bi == nilIndex {
		panic("lfu: detach of an entry that belongs to no bucket")
	}

	c.removeEntry(ei)

	prev, next = bi, c.buckets[bi].next
	if c.buckets[bi].len == 0 {
		prev = c.buckets[bi].prev
		c.unlinkBucket(bi)
		c.freeBucket(bi)
	}
	return prev, next
}

// promote records one use of entry ei: it moves to the head of the bucket
// for frequency+1, creating that bucket right after the old position if the
// old successor holds a different frequency.
func (c *Cache[K, V]) promote(ei int) {
	prev, next := c.detach(ei)

	c.entries[ei].freq++
	freq := c.entries[ei].freq

	bi := next
	if bi == nilIndex || c.buckets[bi].freq != freq {
		bi = c.allocBucket(freq)
		c.linkBucket(bi, prev, next)
	}
	c.pushFront(bi, ei)
}

// insertNew places a fresh frequency-1 entry. 1 is never above any live
// frequency, so the target bucket is either the head or a new head.
func (c *Cache[K, V]) insertNew(ei int) {
	bi := c.head
	if bi == nilIndex || c.buckets[bi].freq != 1 {
		bi = c.allocBucket(1)
		c.linkBucket(bi, nilIndex, c.head)
	}
	c.pushFront(bi, ei)
}

// victim returns the unique eviction candidate: the least recently touched
// entry of the lowest-frequency bucket.
func (c *Cache[K, V]) victim() int {
	if c.head == nilIndex {
		return nilIndex
	}
	ei := c.buckets[c.head].tail
	if ei == nilIndex {
		panic("lfu: empty bucket linked at chain head")
	}
	return ei
}
