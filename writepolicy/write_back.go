package writepolicy

import (
	"context"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/krisalay/lfu-cache/types"
)

// writeReq is one pending write for the backing store.
type writeReq struct {
	ctx   context.Context
	key   string
	value any
}

/*
WriteBackPolicy queues writes and lets a single background worker apply them
to the backing store, in order.
*/
type WriteBackPolicy struct {
	store types.Loader

	// ch buffers pending writes so bursts do not block the cache.
	ch chan writeReq

	// mu guards closed against OnWrite racing with Close.
	mu     sync.RWMutex
	closed bool

	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewWriteBackPolicy starts the worker. buffer is the queue length.
func NewWriteBackPolicy(store types.Loader, buffer int) *WriteBackPolicy {
	w := &WriteBackPolicy{
		store: store,
		ch:    make(chan writeReq, buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the write. A full queue drops it: blocking here would make
// every cache write as slow as the store.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, key string, value any) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrClosed
	}

	select {
	case w.ch <- writeReq{context.WithoutCancel(ctx), key, value}:
	default:
		n := w.dropped.Add(1)
		klog.V(2).InfoS("write-back queue full, dropping write", "key", key, "dropped", n)
	}
	return nil
}

// worker drains the queue until Close.
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Put(req.ctx, req.key, req.value); err != nil {
			klog.ErrorS(err, "write-back failed", "key", req.key)
		}
	}
}

// Dropped returns how many writes were discarded because the queue was full.
func (w *WriteBackPolicy) Dropped() int64 {
	return w.dropped.Load()
}

/*
Close stops accepting writes, then waits for the worker to apply everything
already queued. Safe to call more than once.
*/
func (w *WriteBackPolicy) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
}
