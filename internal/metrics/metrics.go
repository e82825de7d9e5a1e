package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskpilot",
		Name:      "selections_total",
		Help:      "Model selections served, by task type and chosen provider.",
	}, []string{"task_type", "provider"})
	metricSelectionScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taskpilot",
		Name:      "selection_score",
		Help:      "Final confidence score of the primary selection.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
	metricFallbackDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taskpilot",
		Name:      "selection_fallback_depth",
		Help:      "Number of fallback options returned with the primary selection.",
		Buckets:   []float64{0, 1, 2, 3},
	})
	metricSelectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskpilot",
		Name:      "selection_errors_total",
		Help:      "Selections that failed, by reason.",
	}, []string{"reason"})
	metricBudgetProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taskpilot",
		Name:      "budget_probe_failures_total",
		Help:      "Rate-limit budget probes that errored and were scored with the conservative penalty.",
	})
	metricPerfRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskpilot",
		Name:      "perf_records_total",
		Help:      "Task outcomes recorded, by success.",
	}, []string{"success"})
	metricPersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taskpilot",
		Name:      "persistence_failures_total",
		Help:      "History persistence writes or reads that failed and were swallowed.",
	})
)

func RecordSelection(taskType, provider string, score float64, fallbacks int) {
	metricSelections.WithLabelValues(taskType, provider).Inc()
	metricSelectionScore.Observe(score)
	metricFallbackDepth.Observe(float64(fallbacks))
}

func RecordSelectionError(reason string) {
	metricSelectionErrors.WithLabelValues(reason).Inc()
}

func RecordBudgetProbeFailure() {
	metricBudgetProbeFailures.Inc()
}

func RecordPerfRecord(success bool) {
	if success {
		metricPerfRecords.WithLabelValues("true").Inc()
	} else {
		metricPerfRecords.WithLabelValues("false").Inc()
	}
}

func RecordPersistenceFailure() {
	metricPersistenceFailures.Inc()
}
