// Package router selects the best provider/model combination for a CRM task
// from its declared requirements, recorded performance history, and the
// current rate-limit budget.
package router

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/opentalon/taskpilot/internal/metrics"
	"github.com/opentalon/taskpilot/internal/perf"
	"github.com/opentalon/taskpilot/internal/provider"
	"github.com/opentalon/taskpilot/internal/ratelimit"
)

const (
	budgetNamespace  = "ai_tasks"
	budgetIdentifier = "global"
)

// FallbackOption is one ranked alternative to the primary selection.
type FallbackOption struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Reasoning string `json:"reasoning"`
}

// ModelSelection is the router's answer: a primary choice with its audit
// trail and up to three ranked fallbacks.
type ModelSelection struct {
	ID                string           `json:"id"`
	Provider          string           `json:"provider"`
	Model             string           `json:"model"`
	Reasoning         string           `json:"reasoning"`
	ExpectedCost      float64          `json:"expected_cost"`
	ExpectedLatencyMS float64          `json:"expected_latency_ms"`
	ConfidenceScore   float64          `json:"confidence_score"`
	Breakdown         ScoreBreakdown   `json:"breakdown"`
	FallbackOptions   []FallbackOption `json:"fallback_options"`
}

func (s *ModelSelection) Ref() provider.ModelRef {
	return provider.NewModelRef(s.Provider, s.Model)
}

// Router scores candidates from the static profile tables against live
// provider availability, the performance tracker's aggregates and the
// remaining rate-limit budget. Selection is a pure read; it mutates nothing.
type Router struct {
	registry *provider.Registry
	tracker  *perf.Tracker
	budget   ratelimit.BudgetSource
	limit    ratelimit.Limit
}

// New wires a router. tracker and budget may be nil: a nil tracker means no
// history adjustments, a nil budget skips the rate-limit factor.
func New(registry *provider.Registry, tracker *perf.Tracker, budget ratelimit.BudgetSource, limit ratelimit.Limit) *Router {
	return &Router{
		registry: registry,
		tracker:  tracker,
		budget:   budget,
		limit:    limit,
	}
}

type scoredCandidate struct {
	info      provider.ModelInfo
	breakdown ScoreBreakdown
}

// SelectOptimalModel picks the best available model for the task. It fails
// only for an unknown task type or when no candidate's provider is
// available; every other problem is folded into the scores.
func (r *Router) SelectOptimalModel(ctx context.Context, tc TaskContext) (*ModelSelection, error) {
	tc = tc.normalize()

	profile, ok := LookupProfile(tc.TaskType)
	if !ok {
		metrics.RecordSelectionError("unsupported_task_type")
		return nil, &UnsupportedTaskTypeError{TaskType: tc.TaskType}
	}
	merged := tc.Requirements.merge(profile.Defaults)

	type available struct {
		cand Candidate
		info provider.ModelInfo
	}
	var avail []available
	checked := make(map[string]bool)
	for _, c := range profile.Candidates() {
		providerID := c.Model.Provider()
		checked[providerID] = true
		if !r.registry.Available(providerID) {
			continue
		}
		info, err := r.registry.Model(c.Model)
		if err != nil {
			log.Printf("router: profile references unknown model %s: %v", c.Model, err)
			continue
		}
		avail = append(avail, available{cand: c, info: info})
	}
	if len(avail) == 0 {
		metrics.RecordSelectionError("no_available_model")
		providers := make([]string, 0, len(checked))
		for id := range checked {
			providers = append(providers, id)
		}
		sort.Strings(providers)
		return nil, &NoAvailableModelError{TaskType: tc.TaskType, Checked: providers}
	}

	// Budget probes are independent across candidates; run them together
	// and combine the results only for scoring.
	refs := make([]provider.ModelRef, len(avail))
	for i, a := range avail {
		refs[i] = a.info.Ref()
	}
	budgets := r.probeBudgets(ctx, refs)

	var aggs map[provider.ModelRef]perf.ModelPerformance
	if r.tracker != nil {
		aggs = r.tracker.Aggregates()
	}
	crossAvg := crossModelAvgLatency(aggs)

	scored := make([]scoredCandidate, 0, len(avail))
	for i, a := range avail {
		adjs := requirementAdjustments(a.info, merged)
		p, hasHistory := aggs[a.cand.Model]
		adjs = append(adjs, historyAdjustments(p, hasHistory, crossAvg)...)
		if b := budgets[i]; b.probed {
			if adj, apply := budgetAdjustment(b.remaining, b.err); apply {
				adjs = append(adjs, adj)
			}
		}
		scored = append(scored, scoredCandidate{info: a.info, breakdown: applyAdjustments(a.cand.BaseScore, adjs)})
	}

	// Descending by final score; ties break to the cheaper model, then to
	// profile listing order (stable).
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].breakdown.Final != scored[j].breakdown.Final {
			return scored[i].breakdown.Final > scored[j].breakdown.Final
		}
		return scored[i].info.CostPer1K < scored[j].info.CostPer1K
	})

	primary := scored[0]
	sel := &ModelSelection{
		ID:                uuid.NewString(),
		Provider:          primary.info.ProviderID,
		Model:             primary.info.ID,
		Reasoning:         primary.breakdown.Reasoning(),
		ExpectedCost:      estimateCost(primary.info, merged.Complexity, tc.BatchSize),
		ExpectedLatencyMS: estimateLatencyMS(primary.info, merged.Complexity),
		ConfidenceScore:   primary.breakdown.Final,
		Breakdown:         primary.breakdown,
	}
	for _, sc := range scored[1:] {
		if len(sel.FallbackOptions) == 3 {
			break
		}
		sel.FallbackOptions = append(sel.FallbackOptions, FallbackOption{
			Provider:  sc.info.ProviderID,
			Model:     sc.info.ID,
			Reasoning: sc.breakdown.Reasoning(),
		})
	}

	metrics.RecordSelection(string(tc.TaskType), sel.Provider, sel.ConfidenceScore, len(sel.FallbackOptions))
	return sel, nil
}

type budgetProbe struct {
	remaining int
	err       error
	probed    bool
}

func (r *Router) probeBudgets(ctx context.Context, refs []provider.ModelRef) []budgetProbe {
	probes := make([]budgetProbe, len(refs))
	if r.budget == nil {
		return probes
	}
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref provider.ModelRef) {
			defer wg.Done()
			remaining, err := r.budget.Remaining(ctx, budgetNamespace, budgetIdentifier, ref.String(), r.limit)
			if err != nil {
				log.Printf("router: budget probe for %s: %v", ref, err)
				metrics.RecordBudgetProbeFailure()
			}
			probes[i] = budgetProbe{remaining: remaining, err: err, probed: true}
		}(i, ref)
	}
	wg.Wait()
	return probes
}
