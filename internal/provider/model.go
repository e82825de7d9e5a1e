package provider

import (
	"fmt"
	"strings"
)

// ModelRef identifies a model as "provider/model". It doubles as the
// composite key for performance history records.
type ModelRef string

func NewModelRef(providerID, modelID string) ModelRef {
	return ModelRef(providerID + "/" + modelID)
}

func (r ModelRef) Provider() string {
	parts := strings.SplitN(string(r), "/", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

func (r ModelRef) Model() string {
	parts := strings.SplitN(string(r), "/", 2)
	if len(parts) < 2 {
		return string(r)
	}
	return parts[1]
}

func (r ModelRef) String() string {
	return string(r)
}

func (r ModelRef) Valid() bool {
	return r.Provider() != "" && r.Model() != ""
}

func ParseModelRef(s string) (ModelRef, error) {
	ref := ModelRef(s)
	if !ref.Valid() {
		return "", fmt.Errorf("invalid model ref %q: expected format provider/model", s)
	}
	return ref, nil
}

// Pool distinguishes the two provider classes the router scores against:
// self-hosted models with no per-token charge, and metered commercial APIs.
type Pool string

const (
	PoolSelfHosted Pool = "self_hosted"
	PoolCommercial Pool = "commercial"
)

// Tier is the capability class of a model within its pool.
type Tier string

const (
	TierFlagship Tier = "flagship"
	TierStandard Tier = "standard"
	TierMini     Tier = "mini"
)

// Speed ranks models by typical response latency, fastest first.
type Speed int

const (
	SpeedFastest Speed = iota
	SpeedFast
	SpeedStandard
	SpeedSlow
)

type ModelInfo struct {
	ID            string  `json:"id" yaml:"id"`
	ProviderID    string  `json:"provider_id" yaml:"provider_id"`
	Pool          Pool    `json:"pool" yaml:"pool"`
	Tier          Tier    `json:"tier" yaml:"tier"`
	Speed         Speed   `json:"speed" yaml:"speed"`
	LongContext   bool    `json:"long_context" yaml:"long_context"`
	CostPer1K     float64 `json:"cost_per_1k" yaml:"cost_per_1k"`
	BaseLatencyMS int     `json:"base_latency_ms" yaml:"base_latency_ms"`
	MaxTokens     int     `json:"max_tokens" yaml:"max_tokens"`
	Description   string  `json:"description" yaml:"description"`
}

func (m ModelInfo) Ref() ModelRef {
	return NewModelRef(m.ProviderID, m.ID)
}
