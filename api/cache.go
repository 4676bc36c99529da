package cache

import "context"

/*
Cache is the public contract of the concurrent cache.
Sharding, eviction, loading and write propagation stay behind it.
*/
type Cache interface {

	/*
		Get retrieves the value associated with key.

		1. Key in memory: the value is returned and the access is recorded
		   with the eviction policy (under LFU, one more use).
		2. Key not in memory: if a backing store is configured, the value is
		   loaded once (concurrent callers share the load), cached and returned.
		3. Otherwise found is false. A miss is not an error.

		A load runs detached from ctx cancellation because concurrent callers
		share it. If the key is written while its load is in flight, the
		written value is kept and returned instead of the loaded one.
	*/
	Get(ctx context.Context, key string) (value any, found bool, err error)

	/*
		Put stores a key-value pair.

		- A new key may evict the shard's victim first
		- Rewriting a key counts as an access
		- The write policy, if any, forwards the write to the backing store;
		  a write-through failure is returned and the value is not cached
	*/
	Put(ctx context.Context, key string, value any) error

	// Remove deletes a key from memory. The backing store is untouched.
	// Removing a missing key is a no-op.
	Remove(key string)

	// Len returns the number of entries currently held in memory.
	Len() int

	// Close flushes pending write-back work and stops background workers.
	Close()
}
