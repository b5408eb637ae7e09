// Package sqlite stores the orders value in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/xenking/hotpot/internal/domain/order"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`

	getValueSQL = `SELECT value FROM kv_store WHERE key = ?`

	putValueSQL = `INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`
)

var (
	_ order.Backend = (*Backend)(nil)
	_ order.Updater = (*Backend)(nil)
	_ order.Pinger  = (*Backend)(nil)
)

// Backend implements order.Backend on a single-row kv_store table.
type Backend struct {
	db  *sql.DB
	key string
}

// Open opens (creating if needed) the database at path and prepares the
// kv_store table. Transactions start with BEGIN IMMEDIATE so concurrent
// processes serialize their read-modify-write cycles.
func Open(ctx context.Context, path, key string) (*Backend, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create kv_store")
	}
	return &Backend{db: db, key: key}, nil
}

// Read returns the stored value, or nil when the key has no row.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	return readValue(ctx, b.db, b.key)
}

// Write upserts the stored value.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if _, err := b.db.ExecContext(ctx, putValueSQL, b.key, data); err != nil {
		return fmt.Errorf("writing key %q: %w", b.key, err)
	}
	return nil
}

// Update applies fn inside a write transaction.
func (b *Backend) Update(ctx context.Context, fn func([]byte) ([]byte, error)) (rerr error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if rerr != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := readValue(ctx, tx, b.key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, putValueSQL, b.key, next); err != nil {
		return fmt.Errorf("writing key %q: %w", b.key, err)
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// Ping checks the database handle.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readValue(ctx context.Context, q querier, key string) ([]byte, error) {
	var data []byte
	if err := q.QueryRowContext(ctx, getValueSQL, key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return data, nil
}
