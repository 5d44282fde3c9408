package redisad

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wanderplan:model_calls:"

// CallBudget is a fixed-window counter shared by every replica: at most limit model calls
// are admitted per window across the fleet.
type CallBudget struct {
	c      *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func New(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func NewCallBudget(c *redis.Client, limit int, window time.Duration) *CallBudget {
	if window <= 0 {
		window = time.Minute
	}
	return &CallBudget{c: c, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one call against the current window. A non-positive limit admits everything.
func (b *CallBudget) Allow(ctx context.Context) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	key := b.key()

	var incr *redis.IntCmd
	_, err := b.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 2*b.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("call budget: %w", err)
	}
	return incr.Val() <= b.limit, nil
}

// used reports how many calls the current window has counted.
func (b *CallBudget) used(ctx context.Context) (int64, error) {
	n, err := b.c.Get(ctx, b.key()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (b *CallBudget) key() string {
	slot := b.now().UnixNano() / int64(b.window)
	return fmt.Sprintf("%s%d", keyPrefix, slot)
}
