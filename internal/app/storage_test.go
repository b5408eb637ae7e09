package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/hotpot/internal/domain/order"
	"github.com/xenking/hotpot/internal/storage/file"
	"github.com/xenking/hotpot/internal/storage/memory"
	"github.com/xenking/hotpot/internal/storage/sqlite"
)

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  StorageConfig
		want any
	}{
		{"Memory", StorageConfig{Driver: DriverMemory, Key: order.DefaultKey}, &memory.Backend{}},
		{"File", StorageConfig{Driver: DriverFile, Key: order.DefaultKey, Path: filepath.Join(dir, "orders.json")}, &file.Backend{}},
		{"SQLite", StorageConfig{Driver: DriverSQLite, Key: order.DefaultKey, Path: filepath.Join(dir, "orders.db")}, &sqlite.Backend{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b, closeFn, err := OpenBackend(ctx, zaptest.NewLogger(t), tt.cfg)
			require.NoError(t, err)
			defer closeFn()
			assert.IsType(t, tt.want, b)

			store := order.NewStore(b)
			require.NoError(t, store.Append(ctx, order.Order{Code: "THP-AAAA-111"}))
			all, err := store.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, closeFn, err := OpenBackend(context.Background(), zaptest.NewLogger(t), StorageConfig{Driver: "s3"})
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
