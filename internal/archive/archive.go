// Package archive moves order history in and out of gzip-compressed
// backups.
package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/hotpot/internal/domain/order"
)

// falsePositiveRate of the code filter used by Merge.
const falsePositiveRate = 0.001

// Write encodes orders as a versioned envelope and gzips it to w.
func Write(w io.Writer, orders []order.Order) error {
	data, err := order.Encode(orders)
	if err != nil {
		return errors.Wrap(err, "encode orders")
	}

	zw := pgzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return errors.Wrap(err, "compress")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// Read decompresses and decodes one archive. Unlike the store, a corrupt
// archive is an error.
func Read(r io.Reader) ([]order.Order, error) {
	zr, err := pgzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip")
	}
	defer func() { _ = zr.Close() }()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "decompress")
	}
	orders, err := order.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// WriteFile writes an archive to path, replacing it. A failed write leaves
// any previous file at path untouched.
func WriteFile(path string, orders []order.Order) error {
	return replaceFile(path, func(w io.Writer) error {
		return Write(w, orders)
	})
}

func replaceFile(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create archive")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync archive")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close archive")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}

// ReadFiles reads archives concurrently and returns their orders in the
// order of paths.
func ReadFiles(ctx context.Context, paths ...string) ([]order.Order, error) {
	results := make([][]order.Order, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "open archive")
			}
			defer func() { _ = f.Close() }()

			orders, err := Read(f)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			results[i] = orders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []order.Order
	for _, orders := range results {
		all = append(all, orders...)
	}
	return all, nil
}

// Merge returns the incoming orders whose codes are not already present in
// existing or earlier in incoming, keeping their order. Codes compare
// case-insensitively. A bloom filter over known codes answers most misses;
// only its positives fall back to the exact set.
func Merge(existing, incoming []order.Order) (added []order.Order, skipped int) {
	filter := bloom.NewWithEstimates(uint(max(1, len(existing)+len(incoming))), falsePositiveRate)
	known := make(map[string]struct{}, len(existing)+len(incoming))
	remember := func(code string) {
		filter.AddString(code)
		known[code] = struct{}{}
	}
	for _, o := range existing {
		remember(order.NormalizeCode(o.Code))
	}

	for _, o := range incoming {
		code := order.NormalizeCode(o.Code)
		if filter.TestString(code) {
			if _, dup := known[code]; dup {
				skipped++
				continue
			}
		}
		remember(code)
		added = append(added, o)
	}
	return added, skipped
}
