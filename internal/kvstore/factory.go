package kvstore

import (
	"fmt"

	"github.com/opentalon/taskpilot/internal/config"
)

// Open builds the store named by the storage config.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg.DataDir)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("kvstore: redis backend needs storage.redis_addr")
		}
		return NewRedisStore(cfg.RedisAddr), nil
	case "postgres":
		return OpenPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", cfg.Backend)
	}
}
