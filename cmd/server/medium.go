package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/config"
	"github.com/AnshRaj112/mindmate-backend/internal/database"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// openMedium picks the storage medium for STORAGE_DRIVER. The returned
// cleanup closes whatever connection was opened just for storage.
func openMedium(ctx context.Context, cfg *config.Config, pg *sql.DB, rdb *redis.Client, logger *zap.Logger) (storage.Medium, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("memory storage selected, nothing will survive a restart")
		return storage.NewMemory(), noop, nil

	case config.DriverPostgres:
		if pg == nil {
			return nil, noop, errors.New("postgres driver needs a reachable POSTGRES_URI")
		}
		return storage.NewSQL(pg, storage.DialectPostgres), noop, nil

	case config.DriverRedis:
		if rdb == nil {
			return nil, noop, errors.New("redis driver needs a reachable REDIS_URI")
		}
		return storage.NewRedis(rdb), noop, nil

	case config.DriverMongo:
		if cfg.MongoURI == "" {
			return nil, noop, errors.New("mongo driver needs MONGODB_URI")
		}
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, noop, err
		}
		return storage.NewMongo(db), func() { _ = database.DisconnectMongo(client) }, nil

	default:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using local SQLite database", zap.String("path", cfg.SQLitePath))
		return storage.NewSQL(db, storage.DialectSQLite), func() { _ = db.Close() }, nil
	}
}
