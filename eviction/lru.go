// This file implements LRU eviction.

package eviction

import "container/list"

// lru keeps keys in a list ordered by last access: front is the most recent.
type lru struct {
	order *list.List
	nodes map[string]*list.Element
}

func newLRU() *lru {
	return &lru{
		order: list.New(),
		nodes: make(map[string]*list.Element),
	}
}

func (l *lru) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.order.MoveToFront(n)
	}
}

// OnPut tracks a new key as most recent. Rewriting a known key refreshes it.
func (l *lru) OnPut(k string) {
	if n, ok := l.nodes[k]; ok {
		l.order.MoveToFront(n)
		return
	}
	l.nodes[k] = l.order.PushFront(k)
}

func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.order.Remove(n)
		delete(l.nodes, k)
	}
}

// Evict removes the least recently used key, which always sits at the back.
func (l *lru) Evict() (string, bool) {
	n := l.order.Back()
	if n == nil {
		return "", false
	}
	k := l.order.Remove(n).(string)
	delete(l.nodes, k)
	return k, true
}

func (l *lru) Len() int { return l.order.Len() }
