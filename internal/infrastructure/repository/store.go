package repository

import (
	"context"
	"fmt"

	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/infrastructure/config"
	"cameroonmark/internal/infrastructure/database"
)

// OpenStore creates the durable store selected by the configured driver
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := database.New(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLiteStore(db), nil
	case config.DriverFile:
		return NewFileStore(cfg.StoragePath)
	case config.DriverRedis:
		client, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
