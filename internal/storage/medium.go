// Package storage is the durable key/value layer persisted collections sit on.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by a Medium used after Close.
var ErrClosed = errors.New("storage: medium closed")

// Medium is the raw durable key/value backend. Values are opaque bytes; the
// Adapter owns encoding.
type Medium interface {
	// Get returns found=false and a nil error when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
