// Package snapshot periodically rewrites the tracker's durable history
// blob. Write-through persistence already happens on every record; the
// scheduled pass bounds blob growth after restarts or cap changes, when the
// stored blob may be larger than the configured durable cap.
package snapshot

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/opentalon/taskpilot/internal/config"
	"github.com/opentalon/taskpilot/internal/perf"
)

// DefaultSchedule is used when the config enables snapshots without naming
// a schedule.
const DefaultSchedule = "@every 5m"

type Job struct {
	c *cron.Cron
}

// Start schedules the compaction. schedule takes cron syntax, including
// descriptors like "@every 5m".
func Start(tracker *perf.Tracker, schedule string) (*Job, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		tracker.Snapshot(context.Background())
		log.Printf("snapshot: history blob compacted")
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: bad schedule %q: %w", schedule, err)
	}
	c.Start()
	return &Job{c: c}, nil
}

// StartIfEnabled starts the job per the snapshot config. Returns a nil Job
// when snapshots are disabled.
func StartIfEnabled(tracker *perf.Tracker, cfg config.SnapshotConfig) (*Job, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return Start(tracker, schedule)
}

// Stop halts the schedule and waits for a running compaction to finish.
func (j *Job) Stop() {
	<-j.c.Stop().Done()
}
