// Package redis stores orders under one Redis key.
package redis

import (
	"context"

	"github.com/go-faster/errors"
	goredis "github.com/go-redis/redis/v8"

	"github.com/xenking/hotpot/internal/domain/order"
)

// maxUpdateAttempts bounds optimistic retries when another writer changes
// the key between WATCH and EXEC.
const maxUpdateAttempts = 16

var (
	_ order.Backend = (*Backend)(nil)
	_ order.Updater = (*Backend)(nil)
	_ order.Pinger  = (*Backend)(nil)
)

// ErrConflict is returned when Update keeps losing the race for the key.
var ErrConflict = errors.New("redis: too many concurrent updates")

// Backend implements order.Backend with GET/SET and an optimistic
// WATCH/MULTI/EXEC Update, so appends from several processes do not lose
// each other's orders.
type Backend struct {
	client *goredis.Client
	key    string
}

// New returns a Backend using client and key.
func New(client *goredis.Client, key string) *Backend {
	return &Backend{client: client, key: key}
}

// Open connects to url (redis://...) and checks the connection.
func Open(ctx context.Context, url, key string) (*Backend, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return New(client, key), nil
}

// Read returns the value under the key, or nil when the key is absent.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %s", b.key)
	}
	return data, nil
}

// Write sets the key without expiry.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %s", b.key)
	}
	return nil
}

// Update runs fn inside a WATCH transaction and retries when the key changed
// concurrently.
func (b *Backend) Update(ctx context.Context, fn func([]byte) ([]byte, error)) error {
	txf := func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, b.key).Bytes()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return errors.Wrapf(err, "get %s", b.key)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, b.key, next, 0)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := b.client.Watch(ctx, txf, b.key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// Ping checks the connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close releases the client.
func (b *Backend) Close() error {
	return b.client.Close()
}
