package writepolicy

import (
	"context"
	"errors"
)

// ErrClosed is returned when a write reaches a policy after Close.
var ErrClosed = errors.New("writepolicy: closed")

/*
WritePolicy decides how cache writes reach the backing store.
- write-through: synchronously, the caller sees the store's error
- write-back: asynchronously, errors are only logged
*/
type WritePolicy interface {

	// OnWrite is called whenever the cache writes a key.
	OnWrite(ctx context.Context, key string, value any) error

	// Close is called when the cache is shutting down.
	Close()
}
