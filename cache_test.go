package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/lfu-cache"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/eviction"
	"github.com/krisalay/lfu-cache/lfu"
	"github.com/krisalay/lfu-cache/types"
	"github.com/krisalay/lfu-cache/writepolicy"
)

//
// ================= TEST BACKING STORE =================
//

type TestStore struct {
	mu    sync.RWMutex
	data  map[string]any
	loads atomic.Int64
	err   error
}

func NewTestStore() *TestStore {
	return &TestStore{data: make(map[string]any)}
}

func (s *TestStore) Load(ctx context.Context, key string) (any, error) {
	s.loads.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.data[key], nil
}

func (s *TestStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *TestStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *TestStore) Value(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

//
// ================= HELPERS =================
//

// newTestCache builds a single-shard LFU cache so eviction order is exact.
func newTestCache(t *testing.T, capacity int, store *TestStore, wp writepolicy.WritePolicy) (*cache.ShardedCache, *types.Counters) {
	t.Helper()

	metrics := &types.Counters{}
	var loader types.Loader
	if store != nil {
		loader = store
	}

	c, err := cache.NewShardedCache(1, capacity, eviction.LFU, engine.NewCacheEngine(loader, wp, metrics))
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}
	t.Cleanup(c.Close)
	return c, metrics
}

func expectValue(t *testing.T, c *cache.ShardedCache, key string, want any) {
	t.Helper()
	v, ok, err := c.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	if !ok || v != want {
		t.Fatalf("Get(%s) = %v, %v; want %v", key, v, ok, want)
	}
}

func expectMiss(t *testing.T, c *cache.ShardedCache, key string) {
	t.Helper()
	v, ok, err := c.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	if ok {
		t.Fatalf("Get(%s) = %v, want miss", key, v)
	}
}

//
// ================= CONSTRUCTION =================
//

func TestConstructorValidation(t *testing.T) {
	if _, err := cache.NewShardedCache(0, 10, eviction.LFU, nil); !errors.Is(err, cache.ErrInvalidShardCount) {
		t.Fatalf("expected ErrInvalidShardCount, got %v", err)
	}
	if _, err := cache.NewShardedCache(2, -1, eviction.LFU, nil); !errors.Is(err, lfu.ErrNegativeCapacity) {
		t.Fatalf("expected ErrNegativeCapacity, got %v", err)
	}
	if _, err := cache.NewShardedCache(2, 10, "MRU", nil); !errors.Is(err, eviction.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

//
// ================= BASIC OPERATIONS =================
//

func TestAddAndRetrieve(t *testing.T) {
	c, metrics := newTestCache(t, 10, nil, nil)

	if err := c.Put(context.Background(), "key1", "value1"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	expectValue(t, c, "key1", "value1")
	expectMiss(t, c, "missing")

	snap := metrics.Snapshot()
	if snap.Hits != 1 || snap.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", snap)
	}
}

func TestUpdateExistingKey(t *testing.T) {
	c, _ := newTestCache(t, 10, nil, nil)
	ctx := context.Background()

	c.Put(ctx, "key1", "value1")
	c.Put(ctx, "key1", "value2")

	expectValue(t, c, "key1", "value2")
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestRemoveKey(t *testing.T) {
	c, _ := newTestCache(t, 10, nil, nil)

	c.Put(context.Background(), "key1", "value1")
	c.Remove("key1")
	c.Remove("key1")

	expectMiss(t, c, "key1")
}

func TestZeroCapacity(t *testing.T) {
	c, _ := newTestCache(t, 0, nil, nil)

	c.Put(context.Background(), "1", "A")
	expectMiss(t, c, "1")
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

//
// ================= LFU EVICTION =================
//

func TestEvictsLowestFrequency(t *testing.T) {
	c, metrics := newTestCache(t, 2, nil, nil)
	ctx := context.Background()

	c.Put(ctx, "1", "A")
	c.Put(ctx, "2", "B")
	expectValue(t, c, "1", "A")
	c.Put(ctx, "3", "C")

	expectMiss(t, c, "2")
	expectValue(t, c, "1", "A")
	expectValue(t, c, "3", "C")

	if got := metrics.Snapshot().Evictions; got != 1 {
		t.Fatalf("expected 1 eviction, got %d", got)
	}
}

func TestEvictionTieBrokenByRecency(t *testing.T) {
	c, _ := newTestCache(t, 2, nil, nil)
	ctx := context.Background()

	c.Put(ctx, "1", "A")
	c.Put(ctx, "2", "B")
	c.Put(ctx, "3", "C")

	expectMiss(t, c, "1")
	expectValue(t, c, "2", "B")
	expectValue(t, c, "3", "C")
}

func TestCapacityIsSplitExactly(t *testing.T) {
	c, err := cache.NewShardedCache(4, 10, eviction.LFU, nil)
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		c.Put(ctx, fmt.Sprintf("key-%d", i), i)
		if n := c.Len(); n > c.Cap() {
			t.Fatalf("size %d exceeds capacity %d", n, c.Cap())
		}
	}
}

//
// ================= READ-THROUGH =================
//

func TestReadThroughLoadsAndCaches(t *testing.T) {
	store := NewTestStore()
	store.Set("keyX", "store-value")
	c, _ := newTestCache(t, 10, store, nil)

	expectValue(t, c, "keyX", "store-value")
	expectValue(t, c, "keyX", "store-value")
	if got := store.loads.Load(); got != 1 {
		t.Fatalf("expected exactly one load, got %d", got)
	}

	// missing in both cache and store
	expectMiss(t, c, "missing")
}

func TestReadThroughError(t *testing.T) {
	boom := errors.New("store down")
	store := NewTestStore()
	store.err = boom
	c, metrics := newTestCache(t, 10, store, nil)

	_, ok, err := c.Get(context.Background(), "k")
	if !errors.Is(err, boom) || ok {
		t.Fatalf("expected store error, got ok=%v err=%v", ok, err)
	}
	if got := metrics.Snapshot().LoadErrors; got != 1 {
		t.Fatalf("expected 1 load error, got %d", got)
	}
}

// gatedStore pauses Load after it has read the store, until release is closed.
type gatedStore struct {
	*TestStore
	loaded  chan struct{}
	release chan struct{}
}

func (s *gatedStore) Load(ctx context.Context, key string) (any, error) {
	v, err := s.TestStore.Load(ctx, key)
	s.loaded <- struct{}{}
	<-s.release
	return v, err
}

func TestPutDuringLoadIsNotOverwritten(t *testing.T) {
	store := &gatedStore{
		TestStore: NewTestStore(),
		loaded:    make(chan struct{}, 1),
		release:   make(chan struct{}),
	}
	store.Set("k", "old")

	c, err := cache.NewShardedCache(1, 10, eviction.LFU,
		engine.NewCacheEngine(store, writepolicy.NewWriteThroughPolicy(store), nil))
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	type result struct {
		v   any
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, ok, err := c.Get(ctx, "k")
		done <- result{v, ok, err}
	}()

	<-store.loaded // the load holds "old"
	if err := c.Put(ctx, "k", "new"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	close(store.release)

	r := <-done
	if r.err != nil || !r.ok || r.v != "new" {
		t.Fatalf("Get during Put = %v, %v, %v; want new", r.v, r.ok, r.err)
	}
	if store.Value("k") != "new" {
		t.Fatalf("store holds %v, want new", store.Value("k"))
	}
	expectValue(t, c, "k", "new")
}

// ctxStore fails loads whose context is already done.
type ctxStore struct{ *TestStore }

func (s ctxStore) Load(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.TestStore.Load(ctx, key)
}

func TestLoadIgnoresCallerCancellation(t *testing.T) {
	store := ctxStore{NewTestStore()}
	store.Set("k", "v")

	c, err := cache.NewShardedCache(1, 10, eviction.LFU, engine.NewCacheEngine(store, nil, nil))
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get with cancelled ctx = %v, %v, %v; want v", v, ok, err)
	}
}

//
// ================= WRITE POLICIES =================
//

func TestWriteThroughFailureIsNotCached(t *testing.T) {
	store := NewTestStore()
	c, _ := newTestCache(t, 10, nil, writepolicy.NewWriteThroughPolicy(store))
	ctx := context.Background()

	if err := c.Put(ctx, "ok", 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if store.Value("ok") != 1 {
		t.Fatalf("write-through did not reach the store")
	}

	store.err = errors.New("read-only")
	if err := c.Put(ctx, "bad", 2); err == nil {
		t.Fatalf("expected write-through error")
	}
	expectMiss(t, c, "bad")
}

func TestWriteBackFlushedOnClose(t *testing.T) {
	store := NewTestStore()
	c, err := cache.NewShardedCache(2, 10, eviction.LFU,
		engine.NewCacheEngine(nil, writepolicy.NewWriteBackPolicy(store, 64), nil))
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), i)
	}
	c.Close()

	for i := 0; i < 5; i++ {
		if store.Value(fmt.Sprintf("k%d", i)) != i {
			t.Fatalf("k%d not flushed", i)
		}
	}
}

//
// ================= CONCURRENCY =================
//

func TestConcurrentMissesLoadOnce(t *testing.T) {
	store := NewTestStore()
	store.Set("key", "value")
	c, _ := newTestCache(t, 10, store, nil)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			v, ok, err := c.Get(context.Background(), "key")
			if err != nil {
				return err
			}
			if !ok || v != "value" {
				return fmt.Errorf("expected value, got %v", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	// singleflight only merges overlapping calls; later ones are hits.
	if got := store.loads.Load(); got < 1 || got > 10 {
		t.Fatalf("unexpected load count %d", got)
	}
}

func TestConcurrentMixedWorkload(t *testing.T) {
	c, err := cache.NewShardedCache(8, 64, eviction.LFU, nil)
	if err != nil {
		t.Fatalf("NewShardedCache: %v", err)
	}
	defer c.Close()

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < 16; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				key := fmt.Sprintf("key-%d", (i*7+w)%200)
				if i%3 == 0 {
					if err := c.Put(ctx, key, i); err != nil {
						return err
					}
					continue
				}
				if _, _, err := c.Get(ctx, key); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if c.Len() > c.Cap() {
		t.Fatalf("size %d exceeds capacity %d", c.Len(), c.Cap())
	}
}
