package router

import (
	"fmt"
	"strings"

	"github.com/opentalon/taskpilot/internal/perf"
	"github.com/opentalon/taskpilot/internal/provider"
)

type AdjustmentKind string

const (
	KindDelta  AdjustmentKind = "delta"  // added to the running score
	KindFactor AdjustmentKind = "factor" // multiplies the running score
)

// Adjustment is one named scoring step. Requirement adjustments are deltas;
// the history and budget steps are factors.
type Adjustment struct {
	Name  string         `json:"name"`
	Kind  AdjustmentKind `json:"kind"`
	Value float64        `json:"value"`
}

func delta(name string, v float64) Adjustment {
	return Adjustment{Name: name, Kind: KindDelta, Value: v}
}

func factor(name string, v float64) Adjustment {
	return Adjustment{Name: name, Kind: KindFactor, Value: v}
}

// ScoreBreakdown is the audit trail for one candidate: base score, every
// adjustment in application order, and the clamped final score. The
// human-readable reasoning string is formatted from this structure, never
// the other way around.
type ScoreBreakdown struct {
	Base        float64      `json:"base"`
	Adjustments []Adjustment `json:"adjustments"`
	Final       float64      `json:"final"`
}

func (b ScoreBreakdown) Reasoning() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "base %.0f", b.Base)
	for _, a := range b.Adjustments {
		if a.Kind == KindFactor {
			fmt.Fprintf(&sb, "; x%.2f %s", a.Value, a.Name)
		} else {
			fmt.Fprintf(&sb, "; %+.0f %s", a.Value, a.Name)
		}
	}
	fmt.Fprintf(&sb, "; final %.1f", b.Final)
	return sb.String()
}

// applyAdjustments folds base through the adjustments in order and clamps
// the result to [0, 100].
func applyAdjustments(base float64, adjs []Adjustment) ScoreBreakdown {
	score := base
	for _, a := range adjs {
		if a.Kind == KindFactor {
			score *= a.Value
		} else {
			score += a.Value
		}
	}
	return ScoreBreakdown{Base: base, Adjustments: adjs, Final: clamp(score, 0, 100)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// requirementAdjustments computes the additive deltas for one model against
// the merged requirements. Conditions are independent and non-exclusive;
// several can apply to the same candidate. Order matches the documented
// scoring sequence for reproducible breakdowns.
func requirementAdjustments(m provider.ModelInfo, req Requirements) []Adjustment {
	var adjs []Adjustment
	add := func(name string, v float64) {
		adjs = append(adjs, delta(name, v))
	}

	switch req.Accuracy {
	case AccuracyCritical:
		if m.Tier == provider.TierFlagship {
			if m.Pool == provider.PoolCommercial {
				add("critical accuracy favors commercial flagship", 15)
			} else {
				add("critical accuracy favors self-hosted flagship", 10)
			}
		}
	case AccuracyLow:
		if m.Tier == provider.TierMini {
			add("low accuracy bar suits smallest model", 5)
		}
	}

	if req.Speed == SpeedReqRealtime {
		switch m.Speed {
		case provider.SpeedFastest:
			add("realtime speed favors fastest tier", 20)
		case provider.SpeedFast:
			add("realtime speed favors fast tier", 10)
		case provider.SpeedSlow:
			if m.Pool == provider.PoolCommercial && m.Tier == provider.TierFlagship {
				add("realtime speed penalizes slow commercial flagship", -10)
			}
		}
	}

	switch req.Cost {
	case CostPrefFree:
		if m.Pool == provider.PoolSelfHosted {
			add("free cost requirement favors self-hosted pool", 25)
		} else {
			add("free cost requirement penalizes metered models", -30)
		}
	case CostPrefLow:
		if m.Pool == provider.PoolCommercial && m.Cheap() {
			add("low cost favors cheap commercial model", 15)
		}
		if m.Tier == provider.TierMini {
			add("low cost favors mini-class model", 10)
		}
	}

	if req.Volume == VolumeBulk || req.Volume == VolumeStreaming {
		if m.Speed <= provider.SpeedFast {
			add("high volume favors fast small models", 15)
		}
	}

	switch req.Complexity {
	case ComplexityExpert:
		if m.Pool == provider.PoolCommercial && m.Tier == provider.TierFlagship {
			add("expert complexity favors commercial flagship", 20)
		}
		if m.Pool == provider.PoolSelfHosted && (m.Tier == provider.TierFlagship || m.LongContext) {
			add("expert complexity favors largest self-hosted model", 15)
		}
	case ComplexitySimple:
		if m.Tier == provider.TierMini {
			add("simple task suits smallest model", 10)
		}
	}

	return adjs
}

// historyAdjustments computes the multiplicative factors from recorded
// outcomes. A model with no history gets no factors at all: new models
// start neutral rather than penalized for a missing track record.
// crossAvgMS is the mean of per-model average latencies among models that
// have history; zero means no model has history yet.
func historyAdjustments(p perf.ModelPerformance, ok bool, crossAvgMS float64) []Adjustment {
	if !ok {
		return nil
	}
	adjs := []Adjustment{factor("historical success rate", p.SuccessRate)}
	if crossAvgMS > 0 {
		if p.AvgTimeMS < crossAvgMS {
			adjs = append(adjs, factor("faster than cross-model average", 1.1))
		} else {
			adjs = append(adjs, factor("slower than cross-model average", 0.9))
		}
	}
	return adjs
}

// budgetAdjustment converts the remaining request budget into a factor.
// A failed probe is never fatal; it costs a conservative x0.8.
func budgetAdjustment(remaining int, err error) (Adjustment, bool) {
	if err != nil {
		return factor("availability check failed", 0.8), true
	}
	switch {
	case remaining == 0:
		return factor("rate limit exhausted", 0.1), true
	case remaining < 10:
		return factor("rate limit nearly exhausted", 0.7), true
	case remaining < 25:
		return factor("rate limit under pressure", 0.9), true
	default:
		return Adjustment{}, false
	}
}

// crossModelAvgLatency averages the per-model mean latencies over models
// with recorded history.
func crossModelAvgLatency(aggs map[provider.ModelRef]perf.ModelPerformance) float64 {
	if len(aggs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range aggs {
		sum += p.AvgTimeMS
	}
	return sum / float64(len(aggs))
}
