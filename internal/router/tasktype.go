package router

import "fmt"

// TaskType enumerates the CRM task kinds the router knows profiles for.
type TaskType string

const (
	TaskContactScoring       TaskType = "contact_scoring"
	TaskContactEnrichment    TaskType = "contact_enrichment"
	TaskCategorization       TaskType = "categorization"
	TaskTagging              TaskType = "tagging"
	TaskRelationshipMapping  TaskType = "relationship_mapping"
	TaskSentimentAnalysis    TaskType = "sentiment_analysis"
	TaskLeadQualification    TaskType = "lead_qualification"
	TaskOpportunityAnalysis  TaskType = "opportunity_analysis"
	TaskRiskAssessment       TaskType = "risk_assessment"
	TaskEngagementPrediction TaskType = "engagement_prediction"
)

func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskContactScoring,
		TaskContactEnrichment,
		TaskCategorization,
		TaskTagging,
		TaskRelationshipMapping,
		TaskSentimentAnalysis,
		TaskLeadQualification,
		TaskOpportunityAnalysis,
		TaskRiskAssessment,
		TaskEngagementPrediction,
	}
}

func ParseTaskType(s string) (TaskType, error) {
	for _, tt := range AllTaskTypes() {
		if string(tt) == s {
			return tt, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

// Requirement ordinals. The empty string means "not specified"; profile
// defaults fill in unspecified fields before scoring.

type Accuracy string

const (
	AccuracyLow      Accuracy = "low"
	AccuracyMedium   Accuracy = "medium"
	AccuracyHigh     Accuracy = "high"
	AccuracyCritical Accuracy = "critical"
)

type SpeedReq string

const (
	SpeedReqSlow     SpeedReq = "slow"
	SpeedReqMedium   SpeedReq = "medium"
	SpeedReqFast     SpeedReq = "fast"
	SpeedReqRealtime SpeedReq = "realtime"
)

type CostPref string

const (
	CostPrefHigh   CostPref = "high"
	CostPrefMedium CostPref = "medium"
	CostPrefLow    CostPref = "low"
	CostPrefFree   CostPref = "free"
)

type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
	ComplexityExpert  Complexity = "expert"
)

type Volume string

const (
	VolumeSingle    Volume = "single"
	VolumeBatch     Volume = "batch"
	VolumeBulk      Volume = "bulk"
	VolumeStreaming Volume = "streaming"
)

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Requirements describes the non-functional needs of one task. After
// merging with profile defaults all five fields are set.
type Requirements struct {
	Accuracy   Accuracy   `json:"accuracy" yaml:"accuracy"`
	Speed      SpeedReq   `json:"speed" yaml:"speed"`
	Cost       CostPref   `json:"cost" yaml:"cost"`
	Complexity Complexity `json:"complexity" yaml:"complexity"`
	Volume     Volume     `json:"volume" yaml:"volume"`
}

// merge lays explicit fields over the profile defaults. A field present in
// the request fully replaces the default for that field; this is not a deep
// merge.
func (r Requirements) merge(defaults Requirements) Requirements {
	out := defaults
	if r.Accuracy != "" {
		out.Accuracy = r.Accuracy
	}
	if r.Speed != "" {
		out.Speed = r.Speed
	}
	if r.Cost != "" {
		out.Cost = r.Cost
	}
	if r.Complexity != "" {
		out.Complexity = r.Complexity
	}
	if r.Volume != "" {
		out.Volume = r.Volume
	}
	return out
}

// TaskContext is one routing request. BusinessContext and Payload are
// passed through untouched; the router does not interpret them.
type TaskContext struct {
	TaskType        TaskType       `json:"task_type"`
	Requirements    Requirements   `json:"requirements"`
	Urgency         Urgency        `json:"urgency"`
	BatchSize       int            `json:"batch_size"`
	BusinessContext string         `json:"business_context,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
}

// normalize applies the documented defaults: urgency medium, batch size 1.
func (tc TaskContext) normalize() TaskContext {
	if tc.Urgency == "" {
		tc.Urgency = UrgencyMedium
	}
	if tc.BatchSize <= 0 {
		tc.BatchSize = 1
	}
	return tc
}
