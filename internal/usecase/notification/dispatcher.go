package notification

import (
	"context"
	"fmt"
	"time"

	"loanflow/internal/domain/loan"
	domain "loanflow/internal/domain/notification"
	"loanflow/internal/domain/user"

	"go.uber.org/zap"
)

// Publisher hands a notification to the delivery side.
type Publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// Dispatcher turns status changes into queued notifications. It never
// returns an error: every failure is logged and reported through the Outcome.
type Dispatcher struct {
	pub Publisher
	dir user.Directory
	log *zap.Logger
	now func() time.Time
}

func NewDispatcher(pub Publisher, dir user.Directory, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{pub: pub, dir: dir, log: log, now: time.Now}
}

// NotifyApplicant addresses the notification to the contact stored on the loan.
func (d *Dispatcher) NotifyApplicant(ctx context.Context, l *loan.Loan, status loan.Status) domain.Outcome {
	return d.dispatch(ctx, l, status, domain.Recipient{Email: l.ApplicantEmail, Name: l.ApplicantName})
}

// NotifyUser re-resolves the recipient from the user directory.
func (d *Dispatcher) NotifyUser(ctx context.Context, l *loan.Loan, status loan.Status) domain.Outcome {
	if _, ok := domain.Subject(status); !ok {
		return domain.Outcome{Reason: fmt.Sprintf("no notification for status %s", status)}
	}
	if d.dir == nil {
		return domain.Outcome{Reason: "no notification sent: user directory unavailable"}
	}
	u, err := d.dir.GetUser(ctx, l.UserID)
	if err != nil {
		d.log.Warn("user lookup failed",
			zap.String("user_id", l.UserID),
			zap.String("loan_id", l.PublicID()),
			zap.Error(err))
		return domain.Outcome{Reason: fmt.Sprintf("no notification sent: user lookup failed for %s", l.UserID)}
	}
	return d.dispatch(ctx, l, status, domain.Recipient{Email: u.Email, Name: u.Name})
}

func (d *Dispatcher) dispatch(ctx context.Context, l *loan.Loan, status loan.Status, to domain.Recipient) domain.Outcome {
	n, out := domain.Decide(l, status, to, d.now())
	if n == nil {
		if out.Reason != "" {
			d.log.Info("notification skipped",
				zap.String("loan_id", l.PublicID()),
				zap.String("status", string(status)),
				zap.String("reason", out.Reason))
		}
		return out
	}
	if d.pub == nil {
		return domain.Outcome{Reason: "no notification sent: no delivery configured"}
	}
	if err := d.pub.Publish(ctx, n); err != nil {
		d.log.Error("notification publish failed",
			zap.String("notification_id", n.ID),
			zap.String("loan_id", n.LoanID),
			zap.Error(err))
		return domain.Outcome{Reason: "no notification sent: delivery queue unavailable"}
	}
	d.log.Info("notification queued",
		zap.String("notification_id", n.ID),
		zap.String("loan_id", n.LoanID),
		zap.String("status", string(status)))
	return out
}
