package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testYAML = `
providers:
  openai:
    enabled: true
    credential: "${TASKPILOT_OPENAI_KEY}"
    default_model: gpt-4o-mini
    models:
      - id: gpt-4o
        cost_per_1k: 0.0125
        base_latency_ms: 3200
      - id: gpt-4o-mini
        cost_per_1k: 0.0006
        base_latency_ms: 900
  ollama:
    enabled: true
    credential: local

history:
  memory_cap: 200
  durable_cap: 100

storage:
  backend: sqlite
  data_dir: /tmp/taskpilot-test

rate_limit:
  backend: memory
  max_requests: 50
  window: 30s

snapshot:
  enabled: true
  schedule: "@every 10m"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Providers) != 2 {
		t.Errorf("expected 2 providers, got %d", len(cfg.Providers))
	}
	oa, ok := cfg.Providers["openai"]
	if !ok {
		t.Fatal("openai provider missing")
	}
	if !oa.Enabled {
		t.Error("openai should be enabled")
	}
	if oa.Default != "gpt-4o-mini" {
		t.Errorf("expected default gpt-4o-mini, got %s", oa.Default)
	}
	if len(oa.Models) != 2 {
		t.Fatalf("expected 2 model overrides, got %d", len(oa.Models))
	}
	if oa.Models[0].CostPer1K != 0.0125 {
		t.Errorf("expected cost 0.0125, got %v", oa.Models[0].CostPer1K)
	}
	if cfg.History.MemoryCap != 200 || cfg.History.DurableCap != 100 {
		t.Errorf("history caps not parsed: %+v", cfg.History)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	if cfg.RateLimit.Window.Std() != 30*time.Second {
		t.Errorf("expected 30s window, got %s", cfg.RateLimit.Window.Std())
	}
	if !cfg.Snapshot.Enabled {
		t.Error("snapshot should be enabled")
	}
}

func TestParseExpandsEnv(t *testing.T) {
	os.Setenv("TASKPILOT_OPENAI_KEY", "sk-test-123")
	defer os.Unsetenv("TASKPILOT_OPENAI_KEY")

	cfg, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Providers["openai"].Credential != "sk-test-123" {
		t.Errorf("expected expanded credential, got %s", cfg.Providers["openai"].Credential)
	}
}

func TestParseLeavesUnsetEnvIntact(t *testing.T) {
	os.Unsetenv("TASKPILOT_OPENAI_KEY")
	cfg, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Providers["openai"].Credential != "${TASKPILOT_OPENAI_KEY}" {
		t.Errorf("unset env var should stay literal, got %s", cfg.Providers["openai"].Credential)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte("providers: {}"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.MemoryCap != 1000 {
		t.Errorf("expected default memory cap 1000, got %d", cfg.History.MemoryCap)
	}
	if cfg.History.DurableCap != 500 {
		t.Errorf("expected default durable cap 500, got %d", cfg.History.DurableCap)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("expected memory backend, got %s", cfg.Storage.Backend)
	}
	if cfg.RateLimit.MaxRequests != 100 || cfg.RateLimit.Window.Std() != time.Minute {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	_, err := Parse([]byte("storage:\n  backend: etcd\n"))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "etcd") {
		t.Errorf("error should name the bad backend: %v", err)
	}
}

func TestValidateRejectsInvertedCaps(t *testing.T) {
	_, err := Parse([]byte("history:\n  memory_cap: 10\n  durable_cap: 50\n"))
	if err == nil {
		t.Fatal("expected error when durable_cap > memory_cap")
	}
}
