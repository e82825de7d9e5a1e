package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
	History   HistoryConfig             `yaml:"history"`
	Storage   StorageConfig             `yaml:"storage"`
	RateLimit RateLimitConfig           `yaml:"rate_limit"`
	Snapshot  SnapshotConfig            `yaml:"snapshot"`
}

type ProviderConfig struct {
	Enabled    bool            `yaml:"enabled"`
	Credential string          `yaml:"credential"`
	Models     []ModelOverride `yaml:"models"`
	Default    string          `yaml:"default_model"`
}

// ModelOverride adjusts the built-in cost/latency figures for one model.
// Candidate lists and base scores stay in the built-in profile tables.
type ModelOverride struct {
	ID            string  `yaml:"id"`
	CostPer1K     float64 `yaml:"cost_per_1k"`
	BaseLatencyMS int     `yaml:"base_latency_ms"`
	MaxTokens     int     `yaml:"max_tokens"`
	Description   string  `yaml:"description"`
}

type HistoryConfig struct {
	MemoryCap  int `yaml:"memory_cap"`
	DurableCap int `yaml:"durable_cap"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory, sqlite, redis, postgres
	DataDir     string `yaml:"data_dir"`
	RedisAddr   string `yaml:"redis_addr"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type RateLimitConfig struct {
	Backend     string   `yaml:"backend"` // memory, redis
	MaxRequests int      `yaml:"max_requests"`
	Window      Duration `yaml:"window"`
	RedisAddr   string   `yaml:"redis_addr"`
}

// Duration wraps time.Duration so yaml values like "30s" parse.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type SnapshotConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)}`)

func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func expandEnvInProviders(cfg *Config) {
	for name, p := range cfg.Providers {
		p.Credential = expandEnv(p.Credential)
		cfg.Providers[name] = p
	}
	cfg.Storage.PostgresDSN = expandEnv(cfg.Storage.PostgresDSN)
	cfg.Storage.RedisAddr = expandEnv(cfg.Storage.RedisAddr)
	cfg.RateLimit.RedisAddr = expandEnv(cfg.RateLimit.RedisAddr)
}

func Default() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{},
		History: HistoryConfig{
			MemoryCap:  1000,
			DurableCap: 500,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		RateLimit: RateLimitConfig{
			Backend:     "memory",
			MaxRequests: 100,
			Window:      Duration(time.Minute),
		},
		Snapshot: SnapshotConfig{
			Enabled:  false,
			Schedule: "@every 5m",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	expandEnvInProviders(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.History.MemoryCap <= 0 {
		return fmt.Errorf("config: history.memory_cap must be positive, got %d", c.History.MemoryCap)
	}
	if c.History.DurableCap <= 0 {
		return fmt.Errorf("config: history.durable_cap must be positive, got %d", c.History.DurableCap)
	}
	if c.History.DurableCap > c.History.MemoryCap {
		return fmt.Errorf("config: history.durable_cap (%d) exceeds memory_cap (%d)",
			c.History.DurableCap, c.History.MemoryCap)
	}
	switch c.Storage.Backend {
	case "memory", "sqlite", "redis", "postgres":
	default:
		return fmt.Errorf("config: unknown storage backend %q (supported: memory, sqlite, redis, postgres)", c.Storage.Backend)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown rate_limit backend %q (supported: memory, redis)", c.RateLimit.Backend)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("config: rate_limit.max_requests must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("config: rate_limit.window must be positive, got %s", c.RateLimit.Window.Std())
	}
	return nil
}
