package writepolicy

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/krisalay/lfu-cache/types"
)

// WriteThroughPolicy forwards every cache write to the backing store before
// the cache write returns: Cache write → store write (synchronous).
type WriteThroughPolicy struct {
	store types.Loader
}

func NewWriteThroughPolicy(store types.Loader) *WriteThroughPolicy {
	return &WriteThroughPolicy{store: store}
}

// OnWrite writes to the store and returns its error. A slow store makes
// cache writes slow.
func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key string, value any) error {
	if err := w.store.Put(ctx, key, value); err != nil {
		klog.V(2).InfoS("write-through failed", "key", key, "err", err)
		return fmt.Errorf("write-through %q: %w", key, err)
	}
	return nil
}

// Close has nothing to release: write-through runs no workers.
func (w *WriteThroughPolicy) Close() {}
