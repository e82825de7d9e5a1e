package router

import (
	"testing"

	"github.com/opentalon/taskpilot/internal/provider"
)

func TestEveryTaskTypeHasAProfile(t *testing.T) {
	for _, tt := range AllTaskTypes() {
		p, ok := LookupProfile(tt)
		if !ok {
			t.Errorf("%s: missing profile", tt)
			continue
		}
		if len(p.SelfHosted) == 0 || len(p.Commercial) == 0 {
			t.Errorf("%s: both pools need candidates", tt)
		}
		d := p.Defaults
		if d.Accuracy == "" || d.Speed == "" || d.Cost == "" || d.Complexity == "" || d.Volume == "" {
			t.Errorf("%s: defaults must set all five requirement fields: %+v", tt, d)
		}
	}
}

func TestProfileCandidatesResolveInCatalog(t *testing.T) {
	reg := provider.NewRegistry()
	for _, tt := range AllTaskTypes() {
		p, _ := LookupProfile(tt)
		for _, c := range p.Candidates() {
			if _, err := reg.Model(c.Model); err != nil {
				t.Errorf("%s: candidate %s not in catalog: %v", tt, c.Model, err)
			}
			if c.BaseScore < 0 || c.BaseScore > 100 {
				t.Errorf("%s: base score %v out of range for %s", tt, c.BaseScore, c.Model)
			}
			if c.Reasoning == "" {
				t.Errorf("%s: candidate %s missing reasoning", tt, c.Model)
			}
		}
	}
}

func TestProfilePoolsMatchProviderPools(t *testing.T) {
	reg := provider.NewRegistry()
	for _, tt := range AllTaskTypes() {
		p, _ := LookupProfile(tt)
		for _, c := range p.SelfHosted {
			m, _ := reg.Model(c.Model)
			if m.Pool != provider.PoolSelfHosted {
				t.Errorf("%s: %s listed in self-hosted pool but is %s", tt, c.Model, m.Pool)
			}
		}
		for _, c := range p.Commercial {
			m, _ := reg.Model(c.Model)
			if m.Pool != provider.PoolCommercial {
				t.Errorf("%s: %s listed in commercial pool but is %s", tt, c.Model, m.Pool)
			}
		}
	}
}

func TestParseTaskType(t *testing.T) {
	tt, err := ParseTaskType("sentiment_analysis")
	if err != nil {
		t.Fatal(err)
	}
	if tt != TaskSentimentAnalysis {
		t.Errorf("got %s", tt)
	}
	if _, err := ParseTaskType("laundry"); err == nil {
		t.Error("expected error for unknown task type")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	tc := TaskContext{TaskType: TaskTagging}.normalize()
	if tc.Urgency != UrgencyMedium {
		t.Errorf("default urgency should be medium, got %s", tc.Urgency)
	}
	if tc.BatchSize != 1 {
		t.Errorf("default batch size should be 1, got %d", tc.BatchSize)
	}
}
