package router

import "github.com/opentalon/taskpilot/internal/provider"

// Candidate is one model in a task profile: a static baseline suitability
// score with the curator's note on why it is listed.
type Candidate struct {
	Model     provider.ModelRef
	BaseScore float64 // 0-100
	Reasoning string
}

// Profile is the immutable per-task-type configuration: default
// requirements plus one curated candidate list per provider pool. The
// tables below are configuration, not runtime state; nothing mutates them.
type Profile struct {
	Defaults   Requirements
	SelfHosted []Candidate
	Commercial []Candidate
}

// Candidates returns both pools in listing order, self-hosted first. The
// order is the stable tie-break baseline for sorting.
func (p Profile) Candidates() []Candidate {
	out := make([]Candidate, 0, len(p.SelfHosted)+len(p.Commercial))
	out = append(out, p.SelfHosted...)
	out = append(out, p.Commercial...)
	return out
}

// LookupProfile returns the static profile for a task type.
func LookupProfile(tt TaskType) (Profile, bool) {
	p, ok := profiles[tt]
	return p, ok
}

func sh(model string) provider.ModelRef {
	return provider.NewModelRef(provider.SelfHostedProviderID, model)
}

func com(model string) provider.ModelRef {
	return provider.NewModelRef(provider.CommercialProviderID, model)
}

var profiles = map[TaskType]Profile{
	TaskContactScoring: {
		Defaults: Requirements{AccuracyHigh, SpeedReqMedium, CostPrefMedium, ComplexityMedium, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 76, "best free-pool judgment over mixed engagement signals"},
			{sh("llama3.1-8b"), 70, "adequate for score bands when signals are clean"},
			{sh("mistral-7b"), 62, "usable fallback for coarse scoring"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 88, "most consistent multi-factor scoring"},
			{com("gpt-4o-mini"), 80, "close to flagship on structured scoring at a fraction of the cost"},
			{com("gpt-3.5-turbo"), 68, "acceptable when budget is tight"},
		},
	},
	TaskContactEnrichment: {
		Defaults: Requirements{AccuracyHigh, SpeedReqSlow, CostPrefMedium, ComplexityComplex, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 78, "strongest free-pool synthesis of sparse contact data"},
			{sh("mixtral-8x7b"), 74, "long context helps when enrichment sources are verbose"},
			{sh("llama3.1-8b"), 64, "limited inference depth for gap filling"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 90, "best at inferring firmographics from partial data"},
			{com("gpt-4-turbo"), 84, "long context, solid enrichment quality"},
			{com("gpt-4o-mini"), 72, "fine for light enrichment passes"},
		},
	},
	TaskCategorization: {
		Defaults: Requirements{AccuracyMedium, SpeedReqFast, CostPrefLow, ComplexitySimple, VolumeBatch},
		SelfHosted: []Candidate{
			{sh("phi3-mini"), 82, "classification-grade quality at the lowest latency"},
			{sh("mistral-7b"), 78, "fast and reliable on fixed label sets"},
			{sh("llama3.1-8b"), 75, "steady accuracy on ambiguous categories"},
		},
		Commercial: []Candidate{
			{com("gpt-4o-mini"), 80, "cheap, fast and accurate on fixed taxonomies"},
			{com("gpt-3.5-turbo"), 76, "good label adherence at low cost"},
			{com("gpt-4o"), 64, "overkill for plain categorization"},
		},
	},
	TaskTagging: {
		Defaults: Requirements{AccuracyMedium, SpeedReqFast, CostPrefFree, ComplexitySimple, VolumeBulk},
		SelfHosted: []Candidate{
			{sh("phi3-mini"), 84, "bulk tagging throughput champion"},
			{sh("mistral-7b"), 79, "fast with a richer tag vocabulary"},
			{sh("llama3.1-8b"), 74, "better recall on niche tags"},
		},
		Commercial: []Candidate{
			{com("gpt-4o-mini"), 78, "cheap enough for bulk runs when local capacity is short"},
			{com("gpt-3.5-turbo"), 74, "serviceable tag quality"},
		},
	},
	TaskRelationshipMapping: {
		Defaults: Requirements{AccuracyHigh, SpeedReqSlow, CostPrefMedium, ComplexityExpert, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 70, "handles multi-hop org relationships in the free pool"},
			{sh("mixtral-8x7b"), 68, "long context fits large relationship graphs"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 85, "best graph reasoning over sprawling account structures"},
			{com("gpt-4-turbo"), 78, "reliable on mid-sized relationship webs"},
			{com("gpt-4o-mini"), 60, "shallow on indirect relationships"},
		},
	},
	TaskSentimentAnalysis: {
		Defaults: Requirements{AccuracyMedium, SpeedReqFast, CostPrefLow, ComplexitySimple, VolumeBatch},
		SelfHosted: []Candidate{
			{sh("mistral-7b"), 80, "strong sentiment calibration for its size"},
			{sh("phi3-mini"), 77, "fastest polarity calls"},
			{sh("llama3.1-8b"), 76, "better on sarcasm and mixed tone"},
		},
		Commercial: []Candidate{
			{com("gpt-4o-mini"), 82, "nuanced sentiment at mini-class pricing"},
			{com("gpt-3.5-turbo"), 78, "dependable coarse polarity"},
		},
	},
	TaskLeadQualification: {
		Defaults: Requirements{AccuracyHigh, SpeedReqMedium, CostPrefMedium, ComplexityMedium, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 74, "solid BANT-style reasoning in the free pool"},
			{sh("llama3.1-8b"), 69, "fine for first-pass qualification"},
			{sh("mixtral-8x7b"), 67, "reads long email threads in one pass"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 86, "most reliable qualification judgments"},
			{com("gpt-4o-mini"), 79, "good accuracy for routine leads"},
			{com("gpt-4-turbo"), 77, "thorough but slower"},
		},
	},
	TaskOpportunityAnalysis: {
		Defaults: Requirements{AccuracyHigh, SpeedReqSlow, CostPrefMedium, ComplexityComplex, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 77, "deepest free-pool deal analysis"},
			{sh("mixtral-8x7b"), 72, "digests long deal histories"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 89, "best at weighing competing deal signals"},
			{com("gpt-4-turbo"), 82, "strong with long opportunity timelines"},
			{com("gpt-4o-mini"), 70, "surface-level deal reads"},
		},
	},
	TaskRiskAssessment: {
		Defaults: Requirements{AccuracyCritical, SpeedReqMedium, CostPrefMedium, ComplexityComplex, VolumeSingle},
		SelfHosted: []Candidate{
			{sh("llama3.1-70b"), 75, "most trustworthy free-pool risk judgment"},
			{sh("mixtral-8x7b"), 68, "covers long compliance documents"},
		},
		Commercial: []Candidate{
			{com("gpt-4o"), 90, "lowest false-negative rate on churn and credit risk"},
			{com("gpt-4-turbo"), 80, "thorough risk narratives"},
			{com("gpt-4o-mini"), 62, "too shallow for critical risk calls"},
		},
	},
	TaskEngagementPrediction: {
		Defaults: Requirements{AccuracyMedium, SpeedReqMedium, CostPrefLow, ComplexityMedium, VolumeBatch},
		SelfHosted: []Candidate{
			{sh("llama3.1-8b"), 76, "good pattern reads over activity timelines"},
			{sh("mistral-7b"), 73, "fast batch predictions"},
			{sh("llama3.1-70b"), 70, "extra depth rarely pays off here"},
		},
		Commercial: []Candidate{
			{com("gpt-4o-mini"), 81, "best value for engagement likelihood"},
			{com("gpt-3.5-turbo"), 74, "cheap batch predictions"},
			{com("gpt-4o"), 68, "diminishing returns on this task"},
		},
	},
}
