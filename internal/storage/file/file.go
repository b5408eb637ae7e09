// Package file stores orders in a single JSON file on local disk.
package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/xenking/hotpot/internal/domain/order"
)

var (
	_ order.Backend = (*Backend)(nil)
	_ order.Pinger  = (*Backend)(nil)
)

// Backend reads and writes one file. Writes go to a temporary file that is
// renamed over the target, so readers never observe a partial value.
//
// There is no cross-process locking: two processes appending to the same
// file can lose an update.
type Backend struct {
	path string
}

// New returns a Backend for path. The file and its directory are created on
// first write.
func New(path string) *Backend {
	return &Backend{path: path}
}

// Path is the file the backend writes to.
func (b *Backend) Path() string {
	return b.path
}

// Read returns the file contents, or nil when the file does not exist.
func (b *Backend) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", b.path)
	}
	return data, nil
}

// Write atomically replaces the file contents.
func (b *Backend) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return errors.Wrapf(err, "replace %s", b.path)
	}
	return nil
}

// Ping checks that the parent directory exists or can be created.
func (b *Backend) Ping(_ context.Context) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	return nil
}
