package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/hotpot/internal/domain/order"
)

const (
	getValueSQL = `SELECT value FROM kv_store WHERE key = $1`

	putValueSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	// Serializes writers on the key even before its row exists.
	lockKeySQL = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

var (
	_ order.Backend = (*Backend)(nil)
	_ order.Updater = (*Backend)(nil)
	_ order.Pinger  = (*Backend)(nil)
)

// Backend implements order.Backend on the kv_store table. The value is kept
// as raw bytes so undecodable data survives for inspection.
type Backend struct {
	pool *pgxpool.Pool
	key  string
}

// NewBackend returns a Backend for key that uses the given pool.
func NewBackend(pool *pgxpool.Pool, key string) *Backend {
	return &Backend{pool: pool, key: key}
}

// Read returns the stored value, or nil when the key has no row.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	return readValue(ctx, b.pool, b.key)
}

// Write upserts the stored value.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if _, err := b.pool.Exec(ctx, putValueSQL, b.key, data); err != nil {
		return fmt.Errorf("writing key %q: %w", b.key, err)
	}
	return nil
}

// Update applies fn in a transaction holding an advisory lock on the key.
func (b *Backend) Update(ctx context.Context, fn func([]byte) ([]byte, error)) error {
	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockKeySQL, b.key); err != nil {
			return fmt.Errorf("locking key %q: %w", b.key, err)
		}
		current, err := readValue(ctx, tx, b.key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, putValueSQL, b.key, next); err != nil {
			return fmt.Errorf("writing key %q: %w", b.key, err)
		}
		return nil
	})
}

// Ping checks database connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func readValue(ctx context.Context, q querier, key string) ([]byte, error) {
	var data []byte
	if err := q.QueryRow(ctx, getValueSQL, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return data, nil
}
