package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/hotpot/internal/domain/order"
	"github.com/xenking/hotpot/internal/storage/file"
	"github.com/xenking/hotpot/internal/storage/memory"
	"github.com/xenking/hotpot/internal/storage/postgres"
	"github.com/xenking/hotpot/internal/storage/redis"
	"github.com/xenking/hotpot/internal/storage/sqlite"
)

// OpenBackend connects the order backend selected by cfg. The returned
// close function releases it and is never nil.
func OpenBackend(ctx context.Context, lg *zap.Logger, cfg StorageConfig) (order.Backend, func(), error) {
	nop := func() {}
	lg = lg.With(zap.String("driver", cfg.Driver), zap.String("key", cfg.Key))

	switch cfg.Driver {
	case DriverMemory:
		lg.Warn("Orders are kept in memory and lost on exit")
		return memory.New(), nop, nil

	case DriverFile:
		lg.Info("Using file storage", zap.String("path", cfg.Path))
		return file.New(cfg.Path), nop, nil

	case DriverSQLite:
		b, err := sqlite.Open(ctx, cfg.Path, cfg.Key)
		if err != nil {
			return nil, nop, errors.Wrap(err, "open sqlite")
		}
		lg.Info("Using sqlite storage", zap.String("path", cfg.Path))
		return b, closer(lg, b.Close), nil

	case DriverRedis:
		b, err := redis.Open(ctx, cfg.RedisURL, cfg.Key)
		if err != nil {
			return nil, nop, errors.Wrap(err, "open redis")
		}
		lg.Info("Using redis storage")
		return b, closer(lg, b.Close), nil

	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nop, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nop, errors.Wrap(err, "run migrations")
		}
		lg.Info("Using postgres storage")
		return postgres.NewBackend(pool, cfg.Key), pool.Close, nil

	default:
		return nil, nop, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func closer(lg *zap.Logger, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			lg.Warn("Close storage", zap.Error(err))
		}
	}
}
