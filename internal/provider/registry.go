package provider

import (
	"fmt"
	"sync"
)

// Settings mirrors config.ProviderConfig to avoid a circular import.
type Settings struct {
	ID         string
	Enabled    bool
	Credential string
	Default    string
	Overrides  []Override
}

// Override adjusts cost/latency figures of one built-in model.
type Override struct {
	ID            string
	CostPer1K     float64
	BaseLatencyMS int
	MaxTokens     int
	Description   string
}

type entry struct {
	enabled    bool
	credential string
	defaultID  string
	models     map[string]ModelInfo
}

// Registry resolves model facts and provider availability. A provider is
// available iff it is enabled in configuration and carries a non-empty
// credential; unavailable providers contribute zero candidates to a
// selection.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry builds a registry over the built-in catalog. Providers without
// settings default to disabled.
func NewRegistry(settings ...Settings) *Registry {
	r := &Registry{entries: make(map[string]*entry)}
	for _, m := range builtinModels {
		e, ok := r.entries[m.ProviderID]
		if !ok {
			e = &entry{models: make(map[string]ModelInfo)}
			r.entries[m.ProviderID] = e
		}
		e.models[m.ID] = m
	}
	for _, s := range settings {
		r.Configure(s)
	}
	return r
}

// Configure applies provider settings, creating the provider if the built-in
// catalog does not know it.
func (r *Registry) Configure(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[s.ID]
	if !ok {
		e = &entry{models: make(map[string]ModelInfo)}
		r.entries[s.ID] = e
	}
	e.enabled = s.Enabled
	e.credential = s.Credential
	e.defaultID = s.Default
	for _, ov := range s.Overrides {
		m, ok := e.models[ov.ID]
		if !ok {
			continue
		}
		if ov.CostPer1K > 0 {
			m.CostPer1K = ov.CostPer1K
		}
		if ov.BaseLatencyMS > 0 {
			m.BaseLatencyMS = ov.BaseLatencyMS
		}
		if ov.MaxTokens > 0 {
			m.MaxTokens = ov.MaxTokens
		}
		if ov.Description != "" {
			m.Description = ov.Description
		}
		e.models[ov.ID] = m
	}
}

// DefaultModel returns the provider's configured default model, when the
// config names one that exists in the catalog.
func (r *Registry) DefaultModel(providerID string) (ModelRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[providerID]
	if !ok || e.defaultID == "" {
		return "", false
	}
	if _, ok := e.models[e.defaultID]; !ok {
		return "", false
	}
	return NewModelRef(providerID, e.defaultID), true
}

// Available reports whether a provider may serve requests.
func (r *Registry) Available(providerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[providerID]
	return ok && e.enabled && e.credential != ""
}

// Model resolves the facts for one model ref.
func (r *Registry) Model(ref ModelRef) (ModelInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[ref.Provider()]
	if !ok {
		return ModelInfo{}, fmt.Errorf("provider %q not found", ref.Provider())
	}
	m, ok := e.models[ref.Model()]
	if !ok {
		return ModelInfo{}, fmt.Errorf("model %q not found for provider %q", ref.Model(), ref.Provider())
	}
	return m, nil
}

// Providers lists all known provider IDs.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}
