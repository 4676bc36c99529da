package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"k8s.io/klog/v2"

	cache "github.com/krisalay/lfu-cache"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/eviction"
	"github.com/krisalay/lfu-cache/lfu"
	"github.com/krisalay/lfu-cache/types"
	"github.com/krisalay/lfu-cache/writepolicy"
)

// ================= BACKING STORE =================

type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]any)}
}

func (s *InMemoryStore) Load(ctx context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	klog.InfoS("STORE load", "key", key)
	return s.data[key], nil
}

func (s *InMemoryStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	klog.V(1).InfoS("STORE put", "key", key)
	s.data[key] = value
	return nil
}

// ================= SCENARIOS =================

func show(c *lfu.Cache[int, string], keys ...int) {
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			klog.InfoS("GET", "key", k, "value", v)
		} else {
			klog.InfoS("GET", "key", k, "value", "<not found>")
		}
	}
}

func newCore(capacity int) *lfu.Cache[int, string] {
	c, err := lfu.NewWithEvict[int, string](capacity, func(k int, v string) {
		klog.InfoS("EVICT", "key", k, "value", v)
	})
	if err != nil {
		klog.ErrorS(err, "cannot create cache", "capacity", capacity)
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	return c
}

func runScenarios() {
	fmt.Println("\n==================== 1) LOWEST FREQUENCY ====================")
	c := newCore(2)
	c.Put(1, "A")
	c.Put(2, "B")
	show(c, 1)
	c.Put(3, "C")
	show(c, 2, 1, 3)

	fmt.Println("\n==================== 2) TIE BROKEN BY RECENCY ====================")
	c = newCore(2)
	c.Put(1, "A")
	c.Put(2, "B")
	c.Put(3, "C")
	show(c, 1, 2, 3)

	fmt.Println("\n==================== 3) ZERO CAPACITY ====================")
	c = newCore(0)
	c.Put(1, "A")
	show(c, 1)
	klog.InfoS("SIZE", "len", c.Len())
}

func runReadThrough(ctx context.Context, shards, capacity int, policy eviction.PolicyType) error {
	fmt.Println("\n==================== 4) READ-THROUGH SHARDED CACHE ====================")

	store := NewInMemoryStore()
	for k, v := range map[string]string{"a": "alpha", "b": "beta"} {
		if err := store.Put(ctx, k, v); err != nil {
			return err
		}
	}

	metrics := &types.Counters{}
	eng := engine.NewCacheEngine(store, writepolicy.NewWriteBackPolicy(store, 1024), metrics)

	c, err := cache.NewShardedCache(shards, capacity, policy, eng)
	if err != nil {
		return err
	}
	defer c.Close()

	// miss, then hit
	for i := 0; i < 2; i++ {
		v, ok, err := c.Get(ctx, "a")
		if err != nil {
			return err
		}
		klog.InfoS("CACHE GET", "key", "a", "value", v, "found", ok)
	}

	// concurrent misses share one load
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			v, _, _ := c.Get(ctx, "b")
			klog.InfoS("CACHE GET", "goroutine", id, "key", "b", "value", v)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 3*capacity; i++ {
		if err := c.Put(ctx, fmt.Sprintf("k%d", i), i); err != nil {
			return err
		}
	}
	v, ok, _ := c.Get(ctx, "a")
	klog.InfoS("CACHE GET after churn", "key", "a", "value", v, "found", ok)

	s := metrics.Snapshot()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %d\n", s.Hits)
	fmt.Printf("MISSES    : %d\n", s.Misses)
	fmt.Printf("EVICTIONS : %d\n", s.Evictions)
	fmt.Printf("HIT RATIO : %.2f\n", s.HitRatio())
	return nil
}

// ================= MAIN =================

func main() {
	klog.InitFlags(nil)
	shards := flag.Int("shards", 4, "number of shards")
	capacity := flag.Int("capacity", 20, "total cache capacity")
	policy := flag.String("policy", string(eviction.LFU), "eviction policy: LFU, LRU or FIFO")
	flag.Parse()
	defer klog.Flush()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY :", *policy)
	fmt.Println("SHARDS          :", *shards)
	fmt.Println("CAPACITY        :", *capacity)

	runScenarios()

	if err := runReadThrough(context.Background(), *shards, *capacity, eviction.PolicyType(*policy)); err != nil {
		klog.ErrorS(err, "read-through demo failed")
		klog.Flush()
		os.Exit(1)
	}

	fmt.Println("\n==================== SHUTDOWN ====================")
	klog.InfoS("cache closed cleanly")
}
