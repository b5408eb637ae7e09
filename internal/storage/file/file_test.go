package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/hotpot/internal/domain/cart"
	"github.com/xenking/hotpot/internal/domain/order"
)

func TestBackend_ReadMissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "nope", "orders.json"))

	data, err := b.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestBackend_WriteCreatesDirectories(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "nested", "orders.json")
	b := New(path)

	require.NoError(t, b.Write(ctx, []byte(`{"version":1,"orders":[]}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"orders":[]}`, string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestBackend_Overwrite(t *testing.T) {
	ctx := context.Background()
	b := New(filepath.Join(t.TempDir(), "orders.json"))

	require.NoError(t, b.Write(ctx, []byte("first, longer value")))
	require.NoError(t, b.Write(ctx, []byte("second")))

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestBackend_ReadsBrowserExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hotpot_orders.json")
	legacy := `[{"code":"THP-K3J9-2QX","items":[{"id":5,"name":"Suya","price":"₦3,000","quantity":3}],"total":9000,"timestamp":"2024-11-02T18:45:10.123Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	store := order.NewStore(New(path))
	o, found, err := order.NewLookup(store).FindByCode(ctx, "thp-k3j9-2qx")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []cart.Line{{ID: 5, Name: "Suya", Price: "₦3,000", Quantity: 3}}, o.Items)
	assert.Equal(t, int64(9000), o.Total)

	require.NoError(t, store.Append(ctx, order.Order{Code: "THP-NEW0-001", Total: 800, Timestamp: "2025-01-01T00:00:00.000Z"}))
	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBackend_Ping(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, New(filepath.Join(dir, "sub", "orders.json")).Ping(context.Background()))

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	assert.Error(t, New(filepath.Join(blocker, "orders.json")).Ping(context.Background()))
}
