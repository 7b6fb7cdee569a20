package notifier

import (
	"context"
	"time"

	"loanflow/internal/domain/notification"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Queue interface {
	Pop(ctx context.Context) (*notification.Notification, error)
	Requeue(ctx context.Context, n *notification.Notification) error
	DeadLetter(ctx context.Context, n *notification.Notification) error
}

type WorkerConfig struct {
	Interval    time.Duration
	Batch       int
	MaxAttempts int
	// sends per second
	Rate  float64
	Burst int
}

// Worker drains the outbox on a ticker and hands each notification to the
// sender, throttled by a token bucket.
type Worker struct {
	q   Queue
	s   Sender
	lim *rate.Limiter
	cfg WorkerConfig
	log *zap.Logger
}

func NewWorker(q Queue, s Sender, cfg WorkerConfig, log *zap.Logger) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		q:   q,
		s:   s,
		lim: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		cfg: cfg,
		log: log,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("notification worker started", zap.Duration("interval", w.cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("notification worker stopped")
			return nil
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain processes up to one batch and returns how many were delivered.
// Failed sends are requeued after the batch so one bad message cannot use up
// its attempts in a single run.
func (w *Worker) Drain(ctx context.Context) int {
	var (
		sent  int
		retry []*notification.Notification
	)
	defer func() {
		for _, n := range retry {
			if err := w.q.Requeue(context.WithoutCancel(ctx), n); err != nil {
				w.log.Error("requeue failed", zap.String("notification_id", n.ID), zap.Error(err))
			}
		}
	}()

	for i := 0; i < w.cfg.Batch; i++ {
		n, err := w.q.Pop(ctx)
		if err != nil {
			w.log.Error("outbox pop failed", zap.Error(err))
			return sent
		}
		if n == nil {
			return sent
		}
		if err := w.lim.Wait(ctx); err != nil {
			// shutting down; keep the message for the next run
			retry = append(retry, n)
			return sent
		}
		err = w.s.Send(ctx, n)
		if err == nil {
			sent++
			w.log.Info("notification sent",
				zap.String("notification_id", n.ID),
				zap.String("loan_id", n.LoanID),
				zap.String("status", string(n.Status)),
				zap.Int("attempt", n.Attempts+1))
			continue
		}

		n.Attempts++
		fields := []zap.Field{
			zap.String("notification_id", n.ID),
			zap.String("loan_id", n.LoanID),
			zap.Int("attempts", n.Attempts),
			zap.Error(err),
		}
		if n.Attempts >= w.cfg.MaxAttempts {
			w.log.Error("notification dropped", fields...)
			if err := w.q.DeadLetter(ctx, n); err != nil {
				w.log.Error("dead-letter failed", zap.String("notification_id", n.ID), zap.Error(err))
			}
			continue
		}
		w.log.Warn("notification send failed, will retry", fields...)
		retry = append(retry, n)
	}
	return sent
}
