package types

import "context"

// Loader is the contract between the cache and the backing store.
type Loader interface {

	/*
		Load is called on a cache miss.
		1. Cache checks the shard → key not found
		2. Cache calls Load(key), once per key even under concurrent misses
		3. Cache stores a non-nil result and returns it

		A nil value with a nil error means the store does not know the key either.
	*/
	Load(ctx context.Context, key string) (any, error)

	// Put writes a value to the backing store. Write policies call it.
	Put(ctx context.Context, key string, value any) error
}
