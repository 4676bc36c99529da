package eviction

import (
	"errors"
	"fmt"
)

/*
This file defines how a shard decides what to remove when it runs out of space.

The shard owns the values. A Policy only tracks keys and answers one question:
which key goes next?
*/

// ErrUnknownPolicy is returned by NewEvictionPolicy for an unsupported PolicyType.
var ErrUnknownPolicy = errors.New("eviction: unknown policy")

/*
Policy is the interface every eviction strategy implements.

Implementations are not safe for concurrent use; the shard mutex guards them.
*/
type Policy interface {

	// OnGet is called whenever a cached key is read.
	//
	// LRU moves the key to the front, LFU counts one use, FIFO ignores it.
	OnGet(string)

	// OnPut is called whenever a key is written.
	//
	// A new key starts being tracked. For a key that is already tracked the
	// write counts as an access under LRU and LFU, FIFO keeps its original slot.
	OnPut(string)

	// Remove stops tracking a key that was deleted explicitly (not evicted).
	Remove(string)

	// Evict picks the next victim and stops tracking it.
	// It returns false when nothing is tracked.
	Evict() (string, bool)

	// Len returns how many keys are tracked.
	Len() int
}

// PolicyType names a supported eviction strategy.
type PolicyType string

const (
	// LFU (Least Frequently Used): evicts the key with the fewest accesses,
	// the least recently touched one among ties. O(1) per operation.
	LFU PolicyType = "LFU"

	// LRU (Least Recently Used): evicts the key that has gone untouched the longest.
	LRU PolicyType = "LRU"

	// FIFO (First In First Out): evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"
)

// NewEvictionPolicy creates a fresh policy instance of the given type.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch t {
	case LFU:
		return newLFU(), nil
	case LRU:
		return newLRU(), nil
	case FIFO:
		return newFIFO(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, t)
	}
}
