package provider

// Built-in model facts for the two provider pools. These figures feed the
// router's cost and latency estimates; config may override cost_per_1k,
// base_latency_ms and max_tokens per model, never the candidate lists.

const (
	SelfHostedProviderID = "ollama"
	CommercialProviderID = "openai"
)

// CheapCommercialThreshold is the cost-per-1k-tokens cutoff below which a
// commercial model counts as cheap for cost-sensitive scoring.
const CheapCommercialThreshold = 0.002

var builtinModels = []ModelInfo{
	// Self-hosted pool: no per-token charge, latency dominated by local inference.
	{
		ID: "llama3.1-70b", ProviderID: SelfHostedProviderID, Pool: PoolSelfHosted,
		Tier: TierFlagship, Speed: SpeedSlow, LongContext: true,
		CostPer1K: 0, BaseLatencyMS: 4500, MaxTokens: 128000,
		Description: "largest self-hosted model, best reasoning in the free pool",
	},
	{
		ID: "mixtral-8x7b", ProviderID: SelfHostedProviderID, Pool: PoolSelfHosted,
		Tier: TierStandard, Speed: SpeedStandard, LongContext: true,
		CostPer1K: 0, BaseLatencyMS: 3000, MaxTokens: 32000,
		Description: "mixture-of-experts, strong long-context throughput",
	},
	{
		ID: "llama3.1-8b", ProviderID: SelfHostedProviderID, Pool: PoolSelfHosted,
		Tier: TierStandard, Speed: SpeedFast,
		CostPer1K: 0, BaseLatencyMS: 1200, MaxTokens: 128000,
		Description: "balanced small model for routine extraction and scoring",
	},
	{
		ID: "mistral-7b", ProviderID: SelfHostedProviderID, Pool: PoolSelfHosted,
		Tier: TierStandard, Speed: SpeedFast,
		CostPer1K: 0, BaseLatencyMS: 1000, MaxTokens: 32000,
		Description: "fast general-purpose model",
	},
	{
		ID: "phi3-mini", ProviderID: SelfHostedProviderID, Pool: PoolSelfHosted,
		Tier: TierMini, Speed: SpeedFastest,
		CostPer1K: 0, BaseLatencyMS: 600, MaxTokens: 4000,
		Description: "smallest and fastest model, classification-grade quality",
	},

	// Commercial pool: metered per-token pricing.
	{
		ID: "gpt-4o", ProviderID: CommercialProviderID, Pool: PoolCommercial,
		Tier: TierFlagship, Speed: SpeedSlow, LongContext: true,
		CostPer1K: 0.0125, BaseLatencyMS: 3200, MaxTokens: 128000,
		Description: "commercial flagship, highest accuracy",
	},
	{
		ID: "gpt-4-turbo", ProviderID: CommercialProviderID, Pool: PoolCommercial,
		Tier: TierStandard, Speed: SpeedStandard, LongContext: true,
		CostPer1K: 0.01, BaseLatencyMS: 2500, MaxTokens: 128000,
		Description: "previous-generation flagship, long context",
	},
	{
		ID: "gpt-3.5-turbo", ProviderID: CommercialProviderID, Pool: PoolCommercial,
		Tier: TierStandard, Speed: SpeedFast,
		CostPer1K: 0.0015, BaseLatencyMS: 800, MaxTokens: 16000,
		Description: "cheap and fast, good enough for simple structured tasks",
	},
	{
		ID: "gpt-4o-mini", ProviderID: CommercialProviderID, Pool: PoolCommercial,
		Tier: TierMini, Speed: SpeedFastest,
		CostPer1K: 0.0006, BaseLatencyMS: 900, MaxTokens: 128000,
		Description: "mini-class model, best cost/latency ratio in the metered pool",
	},
}

// BuiltinModels returns a copy of the built-in model facts.
func BuiltinModels() []ModelInfo {
	out := make([]ModelInfo, len(builtinModels))
	copy(out, builtinModels)
	return out
}

// Cheap reports whether a model is priced below the cheap-commercial cutoff.
func (m ModelInfo) Cheap() bool {
	return m.CostPer1K < CheapCommercialThreshold
}
