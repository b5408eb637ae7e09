//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/hotpot/internal/domain/cart"
	"github.com/xenking/hotpot/internal/domain/order"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "hotpot",
				"POSTGRES_PASSWORD": "hotpot",
				"POSTGRES_DB":       "hotpot",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://hotpot:hotpot@%s:%s/hotpot?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func TestBackend_Postgres(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	store := order.NewStore(NewBackend(pool, order.DefaultKey))

	got, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	a := order.Order{
		Code:      "THP-AAAA-111",
		Items:     []cart.Line{{ID: 1, Name: "Egusi Soup", Price: "₦3,500", Quantity: 2}},
		Total:     7000,
		Timestamp: "2025-06-15T12:00:00.000Z",
	}
	b := a
	b.Code = "THP-BBBB-222"
	require.NoError(t, store.Append(ctx, a))
	require.NoError(t, store.Append(ctx, b))

	got, err = store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []order.Order{a, b}, got)
	assert.NoError(t, store.Ping(ctx))
}

func TestBackend_PostgresConcurrentAppends(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	const writers, perWriter = 5, 10

	var wg sync.WaitGroup
	for range writers {
		s := order.NewStore(NewBackend(pool, "concurrent_orders"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				assert.NoError(t, s.Append(ctx, order.Order{Code: order.GenerateCode()}))
			}
		}()
	}
	wg.Wait()

	all, err := order.NewStore(NewBackend(pool, "concurrent_orders")).All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers*perWriter)
}
