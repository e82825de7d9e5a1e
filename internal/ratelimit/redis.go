package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBudget counts requests in Redis so multiple router instances share
// one budget. Buckets expire two windows after creation.
type RedisBudget struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBudget(addr string) *RedisBudget {
	return &RedisBudget{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		now:    time.Now,
	}
}

func NewRedisBudgetWithClient(client *redis.Client) *RedisBudget {
	return &RedisBudget{client: client, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (b *RedisBudget) SetClock(now func() time.Time) {
	b.now = now
}

func (b *RedisBudget) Remaining(ctx context.Context, namespace, identifier, resource string, limit Limit) (int, error) {
	key := bucketKey(namespace, identifier, resource, b.now().Truncate(limit.Window))
	used, err := b.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return limit.MaxRequests, nil
	}
	if err != nil {
		return 0, err
	}
	if used >= limit.MaxRequests {
		return 0, nil
	}
	return limit.MaxRequests - used, nil
}

func (b *RedisBudget) Record(ctx context.Context, namespace, identifier, resource string, limit Limit) (bool, error) {
	key := bucketKey(namespace, identifier, resource, b.now().Truncate(limit.Window))
	pipe := b.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*limit.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit.MaxRequests), nil
}

func (b *RedisBudget) Close() error {
	return b.client.Close()
}
