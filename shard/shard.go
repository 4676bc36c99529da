package shard

import (
	"sync"

	"github.com/krisalay/lfu-cache/eviction"
	"github.com/krisalay/lfu-cache/types"
)

/*
A Shard is one independent slice of the cache: its own entries, its own
eviction policy, its own lock. Splitting the key space over several shards
keeps contention low without giving up the single-threaded policy code.

Every LFU or LRU read reorders policy state, so reads take the lock as well.
*/
type Shard struct {
	mu sync.Mutex

	entries  map[string]*types.CacheEntry
	policy   eviction.Policy
	capacity int
}

func NewShard(capacity int, policy eviction.Policy) *Shard {
	return &Shard{
		entries:  make(map[string]*types.CacheEntry),
		policy:   policy,
		capacity: capacity,
	}
}

// Get returns the entry for key and records the access with the policy.
func (s *Shard) Get(key string) (*types.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if ok {
		s.policy.OnGet(key)
	}
	return ent, ok
}

/*
Put stores ent under its key.

If the key is new and the shard is full, the policy's victim is removed first
and returned with evicted=true. A zero-capacity shard stores nothing.
*/
func (s *Shard) Put(ent *types.CacheEntry) (victim string, evicted bool) {
	if s.capacity == 0 {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(ent)
}

/*
PutIfAbsent stores ent only if its key is not cached yet.

When the key is already present the resident entry wins: it is returned, and
the call counts as a read of it. Otherwise ent is stored (subject to capacity)
and returned.
*/
func (s *Shard) PutIfAbsent(ent *types.CacheEntry) (resident *types.CacheEntry, victim string, evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[ent.Key]; ok {
		s.policy.OnGet(ent.Key)
		return cur, "", false
	}
	if s.capacity == 0 {
		return ent, "", false
	}

	victim, evicted = s.insertLocked(ent)
	return ent, victim, evicted
}

// insertLocked writes ent, evicting first when a new key meets a full shard.
// s.mu must be held.
func (s *Shard) insertLocked(ent *types.CacheEntry) (victim string, evicted bool) {
	if _, ok := s.entries[ent.Key]; !ok && len(s.entries) >= s.capacity {
		victim, evicted = s.policy.Evict()
		if evicted {
			delete(s.entries, victim)
		}
	}

	s.entries[ent.Key] = ent
	s.policy.OnPut(ent.Key)
	return victim, evicted
}

// Delete removes key. Idempotent.
func (s *Shard) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.policy.Remove(key)
	}
}

func (s *Shard) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Shard) Cap() int { return s.capacity }
