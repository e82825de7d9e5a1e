package ratelimit

import (
	"fmt"

	"github.com/opentalon/taskpilot/internal/config"
)

// Open builds the budget source named by the rate-limit config.
func Open(cfg config.RateLimitConfig) (BudgetSource, Limit, error) {
	limit := Limit{MaxRequests: cfg.MaxRequests, Window: cfg.Window.Std()}
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryBudget(), limit, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, Limit{}, fmt.Errorf("ratelimit: redis backend needs rate_limit.redis_addr")
		}
		return NewRedisBudget(cfg.RedisAddr), limit, nil
	default:
		return nil, Limit{}, fmt.Errorf("ratelimit: unknown backend %q", cfg.Backend)
	}
}
