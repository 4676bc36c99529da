package types

import "time"

// CacheEntry is what a shard stores for one key. The eviction policy tracks
// the key separately; the entry only carries the payload.
type CacheEntry struct {
	Key      string
	Value    any
	StoredAt time.Time // last Put or read-through load
}
