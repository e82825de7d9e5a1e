// Package ratelimit tracks per-provider request budgets in fixed windows.
// The router only reads Remaining when scoring candidates; the host records
// actual provider calls via Record. Probe failures are the caller's problem
// to soften (the router converts them to a score penalty, never an error).
package ratelimit

import (
	"context"
	"time"
)

type Limit struct {
	MaxRequests int
	Window      time.Duration
}

type BudgetSource interface {
	// Remaining returns how many requests are left for resource within the
	// current window. It never returns a negative count.
	Remaining(ctx context.Context, namespace, identifier, resource string, limit Limit) (int, error)
	// Record counts one request against the budget and reports whether the
	// request was still inside the limit.
	Record(ctx context.Context, namespace, identifier, resource string, limit Limit) (bool, error)
}

func bucketKey(namespace, identifier, resource string, windowStart time.Time) string {
	return namespace + ":" + identifier + ":" + resource + ":" + windowStart.UTC().Format(time.RFC3339)
}
