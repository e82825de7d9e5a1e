package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryBudget counts requests in process memory with fixed windows.
type MemoryBudget struct {
	mu      sync.Mutex
	buckets map[string]int
	now     func() time.Time
}

func NewMemoryBudget() *MemoryBudget {
	return &MemoryBudget{
		buckets: make(map[string]int),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (b *MemoryBudget) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *MemoryBudget) Remaining(_ context.Context, namespace, identifier, resource string, limit Limit) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := bucketKey(namespace, identifier, resource, b.now().Truncate(limit.Window))
	used := b.buckets[key]
	if used >= limit.MaxRequests {
		return 0, nil
	}
	return limit.MaxRequests - used, nil
}

func (b *MemoryBudget) Record(_ context.Context, namespace, identifier, resource string, limit Limit) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := bucketKey(namespace, identifier, resource, b.now().Truncate(limit.Window))
	b.buckets[key]++
	return b.buckets[key] <= limit.MaxRequests, nil
}

// Prune drops buckets from past windows. Callers with long-lived processes
// should run it periodically; each bucket key embeds its window start.
func (b *MemoryBudget) Prune(olderThan time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := b.now().Add(-olderThan).UTC().Format(time.RFC3339)
	for key := range b.buckets {
		// Window start is the final ":"-separated segment (RFC3339 contains
		// colons, so compare against the known suffix length instead).
		if len(key) > len(cutoff) && key[len(key)-len(cutoff):] < cutoff {
			delete(b.buckets, key)
		}
	}
}
