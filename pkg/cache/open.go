package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// Open builds the backend named by cfg.Backend. An empty backend means
// file. Remote backends are retried with backoff while unreachable.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: directory is required")
		}
		return NewFileCache(cfg.Dir)
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		var c *RedisCache
		err := RetryWithBackoff(ctx, func() (err error) {
			c, err = NewRedisCache(ctx, cfg.Redis)
			return err
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		var c *MongoCache
		err := RetryWithBackoff(ctx, func() (err error) {
			c, err = NewMongoCache(ctx, cfg.Mongo)
			return err
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
