// Package notifier delivers notifications through a Redis outbox.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loanflow/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a FIFO list: LPUSH on publish, RPOP on consume.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "notifications:outbox"
	}
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Key() string     { return q.key }
func (q *RedisQueue) DeadKey() string { return q.key + ":dead" }

func (q *RedisQueue) Publish(ctx context.Context, n *notification.Notification) error {
	return q.push(ctx, q.key, n)
}

// Requeue puts n at the back of the queue.
func (q *RedisQueue) Requeue(ctx context.Context, n *notification.Notification) error {
	return q.push(ctx, q.key, n)
}

// DeadLetter parks n after its last failed attempt.
func (q *RedisQueue) DeadLetter(ctx context.Context, n *notification.Notification) error {
	return q.push(ctx, q.DeadKey(), n)
}

// Pop returns the oldest notification, or nil when the queue is empty.
// Undecodable entries are moved to the dead-letter list.
func (q *RedisQueue) Pop(ctx context.Context) (*notification.Notification, error) {
	raw, err := q.rdb.RPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var n notification.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		_ = q.rdb.LPush(ctx, q.DeadKey(), raw).Err()
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

func (q *RedisQueue) push(ctx context.Context, key string, n *notification.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, key, b).Err()
}
