// This file implements LFU eviction on top of the lfu package.

package eviction

import (
	"math"

	"github.com/krisalay/lfu-cache/lfu"
)

// lfuPolicy tracks keys only, so the cache values are empty structs.
// The shard decides when to evict, so the tracker itself is unbounded.
type lfuPolicy struct {
	keys *lfu.Cache[string, struct{}]
}

func newLFU() *lfuPolicy {
	keys, err := lfu.New[string, struct{}](math.MaxInt)
	if err != nil {
		// capacity is a non-negative constant
		panic(err)
	}
	return &lfuPolicy{keys: keys}
}

func (l *lfuPolicy) OnGet(k string) {
	l.keys.Get(k)
}

// OnPut starts tracking k at frequency 1, or counts one more use if k is known.
func (l *lfuPolicy) OnPut(k string) {
	l.keys.Put(k, struct{}{})
}

func (l *lfuPolicy) Remove(k string) {
	l.keys.Remove(k)
}

// Evict returns the key with the lowest frequency, least recently used first.
func (l *lfuPolicy) Evict() (string, bool) {
	k, _, ok := l.keys.Evict()
	return k, ok
}

func (l *lfuPolicy) Len() int { return l.keys.Len() }

// Frequency exposes the use count of k, for tests and diagnostics.
func (l *lfuPolicy) Frequency(k string) (int, bool) {
	return l.keys.Frequency(k)
}
