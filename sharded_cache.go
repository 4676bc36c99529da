/*
Package cache is a concurrent, sharded cache whose shards evict with an O(1)
LFU policy by default.

The LFU structure itself lives in package lfu and is single-threaded. This
package supplies the locking around it, plus read-through loading and write
propagation to a backing store.
*/
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"k8s.io/klog/v2"

	api "github.com/krisalay/lfu-cache/api"
	"github.com/krisalay/lfu-cache/engine"
	evict "github.com/krisalay/lfu-cache/eviction"
	"github.com/krisalay/lfu-cache/lfu"
	"github.com/krisalay/lfu-cache/shard"
	"github.com/krisalay/lfu-cache/types"
)

// ErrInvalidShardCount is returned by NewShardedCache for fewer than one shard.
var ErrInvalidShardCount = errors.New("cache: shard count must be at least 1")

var _ api.Cache = (*ShardedCache)(nil)

// ShardedCache splits keys over independently locked shards.
type ShardedCache struct {
	shards   []*shard.Shard
	selector shard.Selector
	engine   *engine.CacheEngine
	capacity int

	// sf collapses concurrent loads of the same missing key into one.
	sf singleflight.Group
}

/*
NewShardedCache creates a cache holding at most capacity entries in total.

Capacity is split exactly: every shard gets capacity/shards and the first
capacity%shards shards get one more. A zero capacity is valid and caches
nothing. engine may be nil.
*/
func NewShardedCache(
	shards int,
	capacity int,
	policy evict.PolicyType,
	eng *engine.CacheEngine,
) (*ShardedCache, error) {
	if shards < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShardCount, shards)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("cache: %w: %d", lfu.ErrNegativeCapacity, capacity)
	}
	if eng == nil {
		eng = engine.NewCacheEngine(nil, nil, nil)
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		p, err := evict.NewEvictionPolicy(policy)
		if err != nil {
			return nil, err
		}

		size := capacity / shards
		if i < capacity%shards {
			size++
		}
		s[i] = shard.NewShard(size, p)
	}

	return &ShardedCache{
		shards:   s,
		selector: shard.HashSelector{},
		engine:   eng,
		capacity: capacity,
	}, nil
}

// Get returns the cached value for key, loading it through the engine on a miss.
func (c *ShardedCache) Get(ctx context.Context, key string) (any, bool, error) {
	sh := c.selector.Select(key, c.shards)

	if ent, ok := sh.Get(key); ok {
		c.engine.Metrics.Hit()
		return ent.Value, true, nil
	}
	c.engine.Metrics.Miss()

	if !c.engine.CanLoad() {
		return nil, false, nil
	}

	// Waiters share the leader's load, so one caller's cancellation must not
	// fail the others.
	loadCtx := context.WithoutCancel(ctx)

	val, err, shared := c.sf.Do(key, func() (any, error) {
		v, err := c.engine.Load(loadCtx, key)
		if err != nil || v == nil {
			return v, err
		}
		// A Put that landed while the load ran is newer than v and wins.
		// A loaded value already lives in the store, so it skips the write policy.
		return c.storeLoaded(sh, key, v), nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: load %q: %w", key, err)
	}
	if val == nil {
		return nil, false, nil
	}

	klog.V(5).InfoS("read-through", "key", key, "shared", shared)
	return val, true, nil
}

// Put forwards the write through the write policy, then caches it.
func (c *ShardedCache) Put(ctx context.Context, key string, value any) error {
	if err := c.engine.OnWrite(ctx, key, value); err != nil {
		return err
	}
	c.store(c.selector.Select(key, c.shards), key, value)
	return nil
}

func (c *ShardedCache) store(sh *shard.Shard, key string, value any) {
	victim, evicted := sh.Put(&types.CacheEntry{
		Key:      key,
		Value:    value,
		StoredAt: time.Now(),
	})
	if evicted {
		c.engine.Metrics.Eviction()
		klog.V(4).InfoS("evicted", "key", victim, "for", key)
	}
}

// storeLoaded caches a read-through value unless the key was written meanwhile,
// and returns whichever value the shard now holds.
func (c *ShardedCache) storeLoaded(sh *shard.Shard, key string, value any) any {
	resident, victim, evicted := sh.PutIfAbsent(&types.CacheEntry{
		Key:      key,
		Value:    value,
		StoredAt: time.Now(),
	})
	if evicted {
		c.engine.Metrics.Eviction()
		klog.V(4).InfoS("evicted", "key", victim, "for", key)
	}
	return resident.Value
}

// Remove deletes key from memory.
func (c *ShardedCache) Remove(key string) {
	c.selector.Select(key, c.shards).Delete(key)
}

// Len sums the shard sizes. Under concurrent writes the result is approximate.
func (c *ShardedCache) Len() int {
	n := 0
	for _, sh := range c.shards {
		n += sh.Len()
	}
	return n
}

// Cap returns the total capacity across shards.
func (c *ShardedCache) Cap() int { return c.capacity }

// Close flushes write-back work. The cache must not be written to afterwards.
func (c *ShardedCache) Close() {
	c.engine.Close()
}
