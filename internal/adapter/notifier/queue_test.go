package notifier

import (
	"context"
	"testing"
	"time"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/notification"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisQueue(rdb, "test:outbox"), s
}

func note(id string) *notification.Notification {
	return &notification.Notification{
		ID:        id,
		Recipient: "a@example.com",
		LoanID:    "LN-" + id,
		Status:    loan.StatusApproved,
		Subject:   "subject",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisQueue_FIFO(t *testing.T) {
	q, s := newQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, note("1")))
	require.NoError(t, q.Publish(ctx, note("2")))
	queued, err := s.List(q.Key())
	require.NoError(t, err)
	assert.Len(t, queued, 2)

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, loan.StatusApproved, first.Status)

	require.NoError(t, q.Requeue(ctx, first))
	second, _ := q.Pop(ctx)
	assert.Equal(t, "2", second.ID)
	again, _ := q.Pop(ctx)
	assert.Equal(t, "1", again.ID)

	empty, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRedisQueue_BadPayloadIsDeadLettered(t *testing.T) {
	q, s := newQueue(t)
	ctx := context.Background()

	_, err := s.Lpush(q.Key(), "{broken")
	require.NoError(t, err)

	_, err = q.Pop(ctx)
	require.Error(t, err)
	dead, err := s.List(q.DeadKey())
	require.NoError(t, err)
	assert.Equal(t, []string{"{broken"}, dead)
}

func TestRedisQueue_DefaultKey(t *testing.T) {
	assert.Equal(t, "notifications:outbox", NewRedisQueue(nil, "").Key())
}
