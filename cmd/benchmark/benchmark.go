package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	cache "github.com/krisalay/lfu-cache"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/eviction"
	"github.com/krisalay/lfu-cache/types"
)

// ================= BENCHMARK =================

// zipfKeys draws keys with a skewed popularity, the workload LFU is built for.
func zipfKeys(seed int64, n int, keySpace uint64) []string {
	z := rand.NewZipf(rand.New(rand.NewSource(seed)), 1.1, 1, keySpace-1)
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", z.Uint64())
	}
	return keys
}

func run(ctx context.Context, policy eviction.PolicyType, shards, capacity, goroutines, opsPerG int, keySpace uint64) error {
	metrics := &types.Counters{}
	c, err := cache.NewShardedCache(shards, capacity, policy, engine.NewCacheEngine(nil, nil, metrics))
	if err != nil {
		return err
	}
	defer c.Close()

	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < goroutines; id++ {
		id := id
		g.Go(func() error {
			for _, key := range zipfKeys(int64(id), opsPerG, keySpace) {
				_, ok, err := c.Get(ctx, key)
				if err != nil {
					return err
				}
				if !ok {
					if err := c.Put(ctx, key, key); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	duration := time.Since(start)
	totalOps := goroutines * opsPerG
	s := metrics.Snapshot()

	fmt.Printf("\n================ %s =================\n", policy)
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hit Ratio        : %.4f\n", s.HitRatio())
	fmt.Printf("Evictions        : %d\n", s.Evictions)
	return nil
}

func main() {
	klog.InitFlags(nil)
	shards := flag.Int("shards", 8, "number of shards")
	capacity := flag.Int("capacity", 10000, "total cache capacity")
	goroutines := flag.Int("goroutines", 64, "concurrent clients")
	opsPerG := flag.Int("ops", 20000, "operations per client")
	keySpace := flag.Uint64("keys", 200000, "distinct keys in the workload")
	flag.Parse()
	defer klog.Flush()

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", *shards)
	fmt.Println("Capacity     :", *capacity)
	fmt.Println("Key Space    :", *keySpace)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *opsPerG)
	fmt.Println("---------------------------------")

	if *keySpace < 2 {
		klog.ErrorS(nil, "key space must hold at least 2 keys", "keys", *keySpace)
		klog.Flush()
		os.Exit(2)
	}

	for _, policy := range []eviction.PolicyType{eviction.LFU, eviction.LRU, eviction.FIFO} {
		if err := run(context.Background(), policy, *shards, *capacity, *goroutines, *opsPerG, *keySpace); err != nil {
			klog.ErrorS(err, "benchmark failed", "policy", policy)
			klog.Flush()
			os.Exit(1)
		}
	}
}
