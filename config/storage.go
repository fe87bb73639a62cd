package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hanahehe/restore/storage"
)

// OpenStorage opens the fragment store selected by cfg.Driver
func OpenStorage(cfg StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "", "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		return storage.NewSQL(db)
	case "file":
		return storage.NewFile(cfg.Path)
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return storage.NewRedis(rdb, cfg.RedisPrefix), nil
	case "memory":
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
