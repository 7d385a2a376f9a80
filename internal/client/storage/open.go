package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aurahood/aurahood/internal/client/config"
	"github.com/aurahood/aurahood/internal/client/repositories/metadata"
	"github.com/aurahood/aurahood/internal/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the metadata repository selected by cfg.StorageDriver along
// with the closer releasing its connection.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (metadata.Repository, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		logger.Info(ctx, "storage ready", "driver", cfg.StorageDriver, "path", cfg.DatabasePath)
		return metadata.NewSQLiteRepository(db), db, nil

	case config.StorageRedis:
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis storage: %w", err)
		}
		logger.Info(ctx, "storage ready", "driver", cfg.StorageDriver, "hash", cfg.RedisHashKey)
		return metadata.NewRedisRepository(client, cfg.RedisHashKey), client, nil

	case config.StorageMemory:
		logger.Warn(ctx, "memory storage selected, the session will not survive a restart")
		return metadata.NewMemoryRepository(), nopCloser{}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
