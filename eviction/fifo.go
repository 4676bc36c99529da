// This file implements FIFO eviction.

package eviction

import "container/list"

type fifo struct {
	// queue holds keys in insertion order, oldest at the front.
	queue *list.List

	// set finds a key's queue element so Remove stays O(1).
	set map[string]*list.Element
}

func newFIFO() *fifo {
	return &fifo{
		queue: list.New(),
		set:   make(map[string]*list.Element),
	}
}

// OnGet: FIFO ignores reads completely.
func (f *fifo) OnGet(string) {}

// OnPut queues a key the first time it is written. Later writes keep its place.
func (f *fifo) OnPut(k string) {
	if _, ok := f.set[k]; ok {
		return
	}
	f.set[k] = f.queue.PushBack(k)
}

func (f *fifo) Evict() (string, bool) {
	n := f.queue.Front()
	if n == nil {
		return "", false
	}
	k := f.queue.Remove(n).(string)
	delete(f.set, k)
	return k, true
}

func (f *fifo) Remove(k string) {
	if n, ok := f.set[k]; ok {
		f.queue.Remove(n)
		delete(f.set, k)
	}
}

func (f *fifo) Len() int { return f.queue.Len() }
