package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opentalon/taskpilot/internal/perf"
	"github.com/opentalon/taskpilot/internal/provider"
	"github.com/opentalon/taskpilot/internal/ratelimit"
)

func bothPools() *provider.Registry {
	return provider.NewRegistry(
		provider.Settings{ID: provider.SelfHostedProviderID, Enabled: true, Credential: "local"},
		provider.Settings{ID: provider.CommercialProviderID, Enabled: true, Credential: "sk-test"},
	)
}

type stubBudget struct {
	remaining map[string]int
	fallback  int
	err       error
}

func (s stubBudget) Remaining(_ context.Context, _, _, resource string, _ ratelimit.Limit) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if r, ok := s.remaining[resource]; ok {
		return r, nil
	}
	return s.fallback, nil
}

func (s stubBudget) Record(context.Context, string, string, string, ratelimit.Limit) (bool, error) {
	return true, nil
}

func testRouter(budget ratelimit.BudgetSource, tracker *perf.Tracker) *Router {
	return New(bothPools(), tracker, budget, ratelimit.Limit{MaxRequests: 100})
}

func TestSelectScoresStayInRange(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	ctx := context.Background()

	reqs := []Requirements{
		{},
		{Accuracy: AccuracyCritical, Complexity: ComplexityExpert},
		{Cost: CostPrefFree, Speed: SpeedReqRealtime, Volume: VolumeStreaming},
		{Accuracy: AccuracyLow, Complexity: ComplexitySimple, Cost: CostPrefLow},
	}
	for _, tt := range AllTaskTypes() {
		for _, req := range reqs {
			sel, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: tt, Requirements: req})
			if err != nil {
				t.Fatalf("%s: %v", tt, err)
			}
			if sel.ConfidenceScore < 0 || sel.ConfidenceScore > 100 {
				t.Errorf("%s: confidence %v out of range", tt, sel.ConfidenceScore)
			}
			if len(sel.FallbackOptions) > 3 {
				t.Errorf("%s: %d fallbacks", tt, len(sel.FallbackOptions))
			}
			for _, fb := range sel.FallbackOptions {
				if fb.Provider == sel.Provider && fb.Model == sel.Model {
					t.Errorf("%s: fallback repeats primary %s/%s", tt, sel.Provider, sel.Model)
				}
			}
		}
	}
}

func TestSelectUnsupportedTaskType(t *testing.T) {
	r := testRouter(nil, nil)
	_, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: "invoice_ocr"})
	if !IsUnsupportedTaskType(err) {
		t.Fatalf("expected UnsupportedTaskTypeError, got %v", err)
	}
}

func TestSelectNoAvailableModel(t *testing.T) {
	// Registry with every provider left at the disabled default.
	r := New(provider.NewRegistry(), nil, nil, ratelimit.Limit{})
	_, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: TaskCategorization})
	if !IsNoAvailableModel(err) {
		t.Fatalf("expected NoAvailableModelError, got %v", err)
	}
	var nam *NoAvailableModelError
	if !errors.As(err, &nam) {
		t.Fatal("error should unwrap to NoAvailableModelError")
	}
	if len(nam.Checked) == 0 {
		t.Error("error should name the providers that were checked")
	}
}

func TestSelectMissingCredentialMeansUnavailable(t *testing.T) {
	reg := provider.NewRegistry(
		provider.Settings{ID: provider.SelfHostedProviderID, Enabled: true}, // no credential
		provider.Settings{ID: provider.CommercialProviderID, Enabled: true, Credential: "sk-test"},
	)
	r := New(reg, nil, nil, ratelimit.Limit{})
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: TaskTagging})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Provider != provider.CommercialProviderID {
		t.Errorf("only the commercial pool is available, got %s", sel.Provider)
	}
	for _, fb := range sel.FallbackOptions {
		if fb.Provider != provider.CommercialProviderID {
			t.Errorf("fallback from unavailable provider: %s/%s", fb.Provider, fb.Model)
		}
	}
}

func TestCategorizationFreeRealtimePrefersFastestSelfHosted(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{
		TaskType: TaskCategorization,
		Requirements: Requirements{
			Cost:       CostPrefFree,
			Speed:      SpeedReqRealtime,
			Accuracy:   AccuracyMedium,
			Complexity: ComplexitySimple,
			Volume:     VolumeBulk,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Provider != provider.SelfHostedProviderID {
		t.Errorf("free cost requirement should pick the self-hosted pool, got %s", sel.Provider)
	}
	if sel.Model != "phi3-mini" {
		t.Errorf("realtime bulk categorization should pick the fastest tier, got %s", sel.Model)
	}
	if sel.ExpectedCost != 0 {
		t.Errorf("self-hosted pool has no per-token cost, got %v", sel.ExpectedCost)
	}
}

func TestRelationshipMappingCriticalExpertPrefersCommercialFlagship(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{
		TaskType: TaskRelationshipMapping,
		Requirements: Requirements{
			Accuracy:   AccuracyCritical,
			Complexity: ComplexityExpert,
			Cost:       CostPrefMedium,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Provider != provider.CommercialProviderID || sel.Model != "gpt-4o" {
		t.Errorf("expected commercial flagship, got %s/%s", sel.Provider, sel.Model)
	}
}

func TestExhaustedBudgetDemotesTopCandidate(t *testing.T) {
	full := testRouter(stubBudget{fallback: 100}, nil)
	ctx := context.Background()
	tc := TaskContext{TaskType: TaskCategorization}

	base, err := full.SelectOptimalModel(ctx, tc)
	if err != nil {
		t.Fatal(err)
	}

	drained := testRouter(stubBudget{
		fallback:  100,
		remaining: map[string]int{base.Ref().String(): 0},
	}, nil)
	sel, err := drained.SelectOptimalModel(ctx, tc)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Ref() == base.Ref() {
		t.Errorf("exhausted candidate %s should lose the top spot", base.Ref())
	}
}

func TestBudgetTiersReflectInBreakdown(t *testing.T) {
	r := testRouter(stubBudget{fallback: 5}, nil) // <10 remaining everywhere
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: TaskTagging})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, a := range sel.Breakdown.Adjustments {
		if a.Kind == KindFactor && a.Value == 0.7 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected x0.7 budget factor in breakdown: %+v", sel.Breakdown.Adjustments)
	}
}

func TestBudgetProbeFailureIsNotFatal(t *testing.T) {
	r := testRouter(stubBudget{err: errors.New("limiter down")}, nil)
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: TaskContactScoring})
	if err != nil {
		t.Fatalf("probe failure must not fail the selection: %v", err)
	}
	found := false
	for _, a := range sel.Breakdown.Adjustments {
		if a.Kind == KindFactor && a.Value == 0.8 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected conservative x0.8 factor in breakdown: %+v", sel.Breakdown.Adjustments)
	}
}

func TestHistoryDemotesUnreliableModel(t *testing.T) {
	ctx := context.Background()
	tracker := perf.NewTracker(nil, perf.Options{})
	r := testRouter(stubBudget{fallback: 100}, tracker)

	base, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskCategorization})
	if err != nil {
		t.Fatal(err)
	}

	// One success, four failures for the current top pick.
	for i := 0; i < 5; i++ {
		tracker.Record(ctx, perf.TaskMetrics{
			TaskType:    string(TaskCategorization),
			Model:       base.Ref(),
			ExecutionMS: 500,
			Success:     i == 0,
		})
	}

	sel, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskCategorization})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Ref() == base.Ref() {
		t.Errorf("model with 20%% success rate should lose the top spot")
	}
}

func TestSelectionIsPureReadOfHistory(t *testing.T) {
	ctx := context.Background()
	tracker := perf.NewTracker(nil, perf.Options{})
	r := testRouter(stubBudget{fallback: 100}, tracker)

	if _, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskTagging}); err != nil {
		t.Fatal(err)
	}
	if tracker.Stats().TotalTasks != 0 {
		t.Error("selection must not record history")
	}
}

func TestFallbacksOrderedByScore(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{TaskType: TaskLeadQualification})
	if err != nil {
		t.Fatal(err)
	}
	if len(sel.FallbackOptions) != 3 {
		t.Fatalf("expected 3 fallbacks, got %d", len(sel.FallbackOptions))
	}
}

func TestReasoningFormattedFromBreakdown(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	sel, err := r.SelectOptimalModel(context.Background(), TaskContext{
		TaskType:     TaskTagging,
		Requirements: Requirements{Cost: CostPrefFree},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sel.Reasoning, "base ") {
		t.Errorf("reasoning should be formatted from the breakdown, got %q", sel.Reasoning)
	}
	if sel.Reasoning != sel.Breakdown.Reasoning() {
		t.Error("reasoning must match the structured breakdown")
	}
}

func TestExpectedLatencyScalesWithComplexity(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	ctx := context.Background()

	expert, err := r.SelectOptimalModel(ctx, TaskContext{
		TaskType:     TaskRiskAssessment,
		Requirements: Requirements{Complexity: ComplexityExpert},
	})
	if err != nil {
		t.Fatal(err)
	}
	medium, err := r.SelectOptimalModel(ctx, TaskContext{
		TaskType:     TaskRiskAssessment,
		Requirements: Requirements{Complexity: ComplexityMedium},
	})
	if err != nil {
		t.Fatal(err)
	}
	if expert.Ref() == medium.Ref() && expert.ExpectedLatencyMS != 2*medium.ExpectedLatencyMS {
		t.Errorf("expert latency should be 2x medium for the same model: %v vs %v",
			expert.ExpectedLatencyMS, medium.ExpectedLatencyMS)
	}
}

func TestBatchSizeScalesExpectedCost(t *testing.T) {
	r := testRouter(stubBudget{fallback: 100}, nil)
	ctx := context.Background()
	one, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskOpportunityAnalysis, BatchSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	ten, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskOpportunityAnalysis, BatchSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if one.Ref() == ten.Ref() && ten.ExpectedCost != 10*one.ExpectedCost {
		t.Errorf("cost should scale with batch size: %v vs %v", one.ExpectedCost, ten.ExpectedCost)
	}
}

func TestSelectionsGetUniqueIDs(t *testing.T) {
	r := testRouter(nil, nil)
	ctx := context.Background()
	a, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskTagging})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.SelectOptimalModel(ctx, TaskContext{TaskType: TaskTagging})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("selections should carry distinct ids: %q vs %q", a.ID, b.ID)
	}
}
