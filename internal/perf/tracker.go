// Package perf is the performance tracker: a bounded rolling log of task
// outcomes plus per-model aggregates the router folds into its scoring.
// Recording never fails to the caller; the in-memory state stays
// authoritative when the durable store misbehaves.
package perf

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opentalon/taskpilot/internal/kvstore"
	"github.com/opentalon/taskpilot/internal/metrics"
	"github.com/opentalon/taskpilot/internal/provider"
)

// HistoryKey is the fixed namespace the history blob is persisted under.
const HistoryKey = "taskpilot:perf:history"

const (
	DefaultMemoryCap  = 1000
	DefaultDurableCap = 500
)

// TaskMetrics is one completed task outcome, reported by the host after it
// executed the task against the chosen model.
type TaskMetrics struct {
	ID          string            `json:"id"`
	TaskType    string            `json:"task_type"`
	Model       provider.ModelRef `json:"model"`
	ExecutionMS float64           `json:"execution_ms"`
	Accuracy    float64           `json:"accuracy"` // 0-1 estimate
	Cost        float64           `json:"cost"`
	Success     bool              `json:"success"`
	Timestamp   time.Time         `json:"timestamp"`
}

// ModelPerformance is the derived aggregate for one model key.
type ModelPerformance struct {
	Model       provider.ModelRef `json:"model"`
	AvgTimeMS   float64           `json:"avg_time_ms"`
	SuccessRate float64           `json:"success_rate"`
	AvgCost     float64           `json:"avg_cost"`
	Samples     int               `json:"samples"`
}

// Stats is the read-only projection over current in-memory state.
type Stats struct {
	TotalTasks         int                `json:"total_tasks"`
	OverallSuccessRate float64            `json:"overall_success_rate"`
	AvgResponseMS      float64            `json:"avg_response_ms"`
	ModelPerformance   []ModelPerformance `json:"model_performance"`
}

type Options struct {
	MemoryCap  int
	DurableCap int
}

// Tracker owns the rolling history and derived aggregates for the process
// lifetime. Construct one per router; there is no package-level instance.
type Tracker struct {
	mu         sync.RWMutex
	store      kvstore.Store
	memoryCap  int
	durableCap int
	history    []TaskMetrics
	agg        map[provider.ModelRef]ModelPerformance
}

func NewTracker(store kvstore.Store, opts Options) *Tracker {
	if opts.MemoryCap <= 0 {
		opts.MemoryCap = DefaultMemoryCap
	}
	if opts.DurableCap <= 0 || opts.DurableCap > opts.MemoryCap {
		opts.DurableCap = min(DefaultDurableCap, opts.MemoryCap)
	}
	return &Tracker{
		store:      store,
		memoryCap:  opts.MemoryCap,
		durableCap: opts.DurableCap,
		agg:        make(map[provider.ModelRef]ModelPerformance),
	}
}

// Restore loads prior history from the durable store. Missing or corrupt
// blobs leave the tracker empty; both are non-fatal.
func (t *Tracker) Restore(ctx context.Context) {
	if t.store == nil {
		return
	}
	blob, err := t.store.Get(ctx, HistoryKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("perf: restore history: %v", err)
			metrics.RecordPersistenceFailure()
		}
		return
	}
	var history []TaskMetrics
	if err := json.Unmarshal([]byte(blob), &history); err != nil {
		log.Printf("perf: corrupt history blob, starting empty: %v", err)
		metrics.RecordPersistenceFailure()
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(history) > t.memoryCap {
		history = history[len(history)-t.memoryCap:]
	}
	t.history = history
	t.recomputeLocked()
}

// Record appends one outcome, recomputes aggregates and writes the history
// through to the durable store. It never fails to the caller; persistence
// errors are logged and swallowed.
func (t *Tracker) Record(ctx context.Context, m TaskMetrics) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	metrics.RecordPerfRecord(m.Success)

	t.mu.Lock()
	t.history = append(t.history, m)
	if len(t.history) > t.memoryCap {
		t.history = t.history[len(t.history)-t.memoryCap:]
	}
	t.recomputeLocked()
	blob := t.encodeLocked(t.durableCap)
	t.mu.Unlock()

	t.persist(ctx, blob)
}

func (t *Tracker) persist(ctx context.Context, blob []byte) {
	if t.store == nil || blob == nil {
		return
	}
	if err := t.store.Set(ctx, HistoryKey, string(blob)); err != nil {
		log.Printf("perf: persist history: %v", err)
		metrics.RecordPersistenceFailure()
	}
}

// encodeLocked marshals the most recent cap records. Caller holds the lock.
func (t *Tracker) encodeLocked(limit int) []byte {
	tail := t.history
	if len(tail) > limit {
		tail = tail[len(tail)-limit:]
	}
	blob, err := json.Marshal(tail)
	if err != nil {
		log.Printf("perf: encode history: %v", err)
		metrics.RecordPersistenceFailure()
		return nil
	}
	return blob
}

// recomputeLocked folds the whole retained history into per-model
// aggregates. O(history) per record is fine given the bounded cap.
func (t *Tracker) recomputeLocked() {
	agg := make(map[provider.ModelRef]ModelPerformance, len(t.agg))
	type acc struct {
		timeSum, costSum float64
		successes, total int
	}
	sums := make(map[provider.ModelRef]*acc)
	for _, m := range t.history {
		a, ok := sums[m.Model]
		if !ok {
			a = &acc{}
			sums[m.Model] = a
		}
		a.timeSum += m.ExecutionMS
		a.costSum += m.Cost
		a.total++
		if m.Success {
			a.successes++
		}
	}
	for ref, a := range sums {
		agg[ref] = ModelPerformance{
			Model:       ref,
			AvgTimeMS:   a.timeSum / float64(a.total),
			SuccessRate: float64(a.successes) / float64(a.total),
			AvgCost:     a.costSum / float64(a.total),
			Samples:     a.total,
		}
	}
	t.agg = agg
}

// Performance returns the aggregate for one model key, if any history exists.
func (t *Tracker) Performance(ref provider.ModelRef) (ModelPerformance, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.agg[ref]
	return p, ok
}

// Aggregates returns a copy of all per-model aggregates.
func (t *Tracker) Aggregates() map[provider.ModelRef]ModelPerformance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[provider.ModelRef]ModelPerformance, len(t.agg))
	for ref, p := range t.agg {
		out[ref] = p
	}
	return out
}

// Stats projects the current in-memory state. Rates are 0 on empty history.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Stats{TotalTasks: len(t.history)}
	if len(t.history) > 0 {
		var timeSum float64
		successes := 0
		for _, m := range t.history {
			timeSum += m.ExecutionMS
			if m.Success {
				successes++
			}
		}
		s.OverallSuccessRate = float64(successes) / float64(len(t.history))
		s.AvgResponseMS = timeSum / float64(len(t.history))
	}
	s.ModelPerformance = make([]ModelPerformance, 0, len(t.agg))
	for _, p := range t.agg {
		s.ModelPerformance = append(s.ModelPerformance, p)
	}
	sort.Slice(s.ModelPerformance, func(i, j int) bool {
		return s.ModelPerformance[i].Model < s.ModelPerformance[j].Model
	})
	return s
}

// History returns a copy of the retained records, oldest first.
func (t *Tracker) History() []TaskMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TaskMetrics, len(t.history))
	copy(out, t.history)
	return out
}

// Snapshot rewrites the durable blob from current memory state, truncated
// to the durable cap. The snapshot job calls this on a schedule.
func (t *Tracker) Snapshot(ctx context.Context) {
	t.mu.RLock()
	blob := t.encodeLocked(t.durableCap)
	t.mu.RUnlock()
	t.persist(ctx, blob)
}
