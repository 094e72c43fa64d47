package main

import (
	"context"
	"fmt"

	"simple-crud/config"
	"simple-crud/logging"
	"simple-crud/models"
	"simple-crud/store"
)

// openStore builds the configured item store, wrapped in the Redis cache when
// enabled. The returned func releases every connection it opened.
func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (store.ItemStore, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var seed []models.Item
	if cfg.Storage.Seed {
		seed = store.SampleItems()
	}

	var items store.ItemStore
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := config.OpenSQLite(ctx, cfg.Storage.SQLite)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })

		s, err := store.NewSQLiteStore(ctx, db, seed...)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		items = s
		logger.Info("using sqlite store", "path", cfg.Storage.SQLite.Path)

	case config.DriverMongo:
		client, err := config.ConnectMongoDB(ctx, cfg.Storage.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		coll := client.Database(cfg.Storage.Mongo.Database).Collection(cfg.Storage.Mongo.Collection)
		s, err := store.NewMongoStore(ctx, coll)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		items = s
		logger.Info("using mongo store",
			"database", cfg.Storage.Mongo.Database,
			"collection", cfg.Storage.Mongo.Collection)

	case config.DriverMemory:
		items = store.NewMemoryStore(seed...)
		logger.Info("using in-memory store", "seeded", len(seed))

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Cache.Redis.Enabled {
		rdb, err := config.ConnectRedis(ctx, cfg.Cache.Redis)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		items = store.NewCachedStore(items, rdb, cfg.CacheTTL(), logger)
		logger.Info("redis cache enabled", "addr", cfg.Cache.Redis.Addr, "ttl", cfg.CacheTTL())
	}

	return items, closeAll, nil
}
