package order

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the order sequence.
const DefaultKey = "hotpot_orders"

// Backend is a single-value durable storage area. Read returns nil data and
// a nil error when nothing has been written yet.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Updater is implemented by backends that can apply a read-modify-write
// atomically with respect to other processes sharing the same storage.
// fn may be called more than once if the backend retries on conflict.
type Updater interface {
	Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error
}

// Pinger is implemented by backends with a connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store persists the sequence of placed orders through a Backend.
//
// Appends within one Store are serialized. Whether appends from other
// processes can be lost depends on the backend: without Updater the store
// falls back to a plain read, append, write of the whole sequence.
type Store struct {
	backend Backend
	mu      sync.Mutex
}

// NewStore returns a Store over backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Append adds orders to the end of the stored sequence. Undecodable existing
// data is replaced; data written by a newer schema is left untouched and
// ErrUnsupportedVersion is returned.
func (s *Store) Append(ctx context.Context, orders ...Order) error {
	if len(orders) == 0 {
		return nil
	}
	return s.AppendFunc(ctx, func([]Order) []Order { return orders })
}

// errNothingToAppend aborts an update that would not change the sequence.
var errNothingToAppend = errors.New("nothing to append")

// AppendFunc appends the orders pick selects given the currently stored
// sequence. With an Updater backend pick runs inside the atomic update, so it
// sees every order committed before it; it may run more than once when the
// backend retries. Nothing is written when pick returns no orders.
func (s *Store) AppendFunc(ctx context.Context, pick func(existing []Order) []Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply := func(current []byte) ([]byte, error) {
		existing, err := s.decodeForWrite(ctx, current)
		if err != nil {
			return nil, err
		}
		orders := pick(existing)
		if len(orders) == 0 {
			return nil, errNothingToAppend
		}
		return Encode(slices.Concat(existing, orders))
	}

	if u, ok := s.backend.(Updater); ok {
		err := u.Update(ctx, apply)
		if err != nil && !errors.Is(err, errNothingToAppend) {
			return errors.Wrap(err, "update orders")
		}
		return nil
	}

	current, err := s.backend.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "read orders")
	}
	data, err := apply(current)
	if errors.Is(err, errNothingToAppend) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return errors.Wrap(err, "write orders")
	}
	return nil
}

// All returns every stored order in insertion order. Absent or undecodable
// data yields an empty slice; only backend failures are returned as errors.
func (s *Store) All(ctx context.Context) ([]Order, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read orders")
	}
	orders, err := Decode(data)
	if err != nil {
		zctx.From(ctx).Warn("Ignoring undecodable order data",
			zap.Error(err),
			zap.Int("bytes", len(data)),
		)
		return []Order{}, nil
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// Ping checks the backend when it supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Store) decodeForWrite(ctx context.Context, data []byte) ([]Order, error) {
	orders, err := Decode(data)
	if err == nil {
		return orders, nil
	}
	if errors.Is(err, ErrUnsupportedVersion) {
		return nil, err
	}
	zctx.From(ctx).Warn("Overwriting undecodable order data",
		zap.Error(err),
		zap.Int("bytes", len(data)),
	)
	return nil, nil
}
