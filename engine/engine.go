package engine

import (
	"context"

	"github.com/krisalay/lfu-cache/types"
	"github.com/krisalay/lfu-cache/writepolicy"
)

/*
CacheEngine holds the policies around storage, NOT storage itself.

It decides:
- How data is loaded on a cache miss
- How writes are propagated to the backing store
- Where metrics go

It does NOT:
- Store data
- Handle sharding or locking
- Decide eviction order
*/
type CacheEngine struct {

	// Loader enables read-through caching. If nil, a miss is simply a miss.
	Loader types.Loader

	// WritePolicy forwards cache writes to the backing store.
	// If nil, writes stay in memory only.
	WritePolicy writepolicy.WritePolicy

	// Metrics is never nil after NewCacheEngine.
	Metrics types.Metrics
}

// NewCacheEngine creates a CacheEngine. Any argument may be nil.
func NewCacheEngine(
	loader types.Loader,
	writePolicy writepolicy.WritePolicy,
	metrics types.Metrics,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Loader:      loader,
		WritePolicy: writePolicy,
		Metrics:     metrics,
	}
}

// CanLoad reports whether misses can be filled from a backing store.
func (e *CacheEngine) CanLoad() bool {
	return e.Loader != nil
}

// Load fetches key from the backing store. Callers check CanLoad first.
func (e *CacheEngine) Load(ctx context.Context, key string) (any, error) {
	v, err := e.Loader.Load(ctx, key)
	if err != nil {
		e.Metrics.LoadError()
	}
	return v, err
}

// OnWrite forwards a cache write according to the write policy.
func (e *CacheEngine) OnWrite(ctx context.Context, key string, value any) error {
	if e.WritePolicy == nil {
		return nil
	}
	return e.WritePolicy.OnWrite(ctx, key, value)
}

// Close releases the write policy, flushing pending write-back work.
func (e *CacheEngine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
