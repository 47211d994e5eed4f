package db

import (
	"context"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Options selects and configures a KeyValueStore backend.
type Options struct {
	Driver        string
	RedisURL      string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	QuotaBytes    int

	// QuotaKeys are counted against the quota as soon as the store opens.
	QuotaKeys []string
}

// Open connects the configured backend and wraps it in a QuotaStore seeded
// with QuotaKeys. The returned close function releases the backend connection.
func Open(ctx context.Context, opts Options) (KeyValueStore, func() error, error) {
	var (
		store   KeyValueStore
		closeFn = func() error { return nil }
	)

	switch opts.Driver {
	case DriverMemory, "":
		store = NewMemoryStore()

	case DriverRedis:
		rdb, err := ConnectRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		store = NewRedisStore(rdb)
		closeFn = rdb.Close

	case DriverMongo:
		database, err := ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		store = NewMongoStore(database)
		closeFn = func() error { return database.Client().Disconnect(context.Background()) }

	case DriverPostgres:
		gdb, err := Connect(opts.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		store = NewSQLStore(gdb)
		closeFn = sqlDB.Close

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	if opts.QuotaBytes > 0 {
		quota := NewQuotaStore(store, opts.QuotaBytes)
		if err := quota.Seed(ctx, opts.QuotaKeys...); err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		store = quota
	}
	return store, closeFn, nil
}
