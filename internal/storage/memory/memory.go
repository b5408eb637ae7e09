// Package memory provides an in-process order store backend.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/hotpot/internal/domain/order"
)

var (
	_ order.Backend = (*Backend)(nil)
	_ order.Updater = (*Backend)(nil)
)

// Backend keeps the stored value in memory. It is lost when the process exits.
type Backend struct {
	mu   sync.Mutex
	data []byte
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{}
}

// Read returns a copy of the stored value, or nil when nothing was written.
func (b *Backend) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clone(b.data), nil
}

// Write replaces the stored value.
func (b *Backend) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = clone(data)
	return nil
}

// Update applies fn to the stored value under the backend lock.
func (b *Backend) Update(_ context.Context, fn func([]byte) ([]byte, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := fn(clone(b.data))
	if err != nil {
		return err
	}
	b.data = clone(next)
	return nil
}

func clone(data []byte) []byte {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
