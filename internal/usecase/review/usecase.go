package review

import (
	"context"
	"fmt"
	"strings"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/notification"
	"loanflow/internal/domain/uow"
	loanUC "loanflow/internal/usecase/loan"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier announces a manager decision to the loan's owner, resolving the
// recipient at send time.
type Notifier interface {
	NotifyUser(ctx context.Context, l *loan.Loan, status loan.Status) notification.Outcome
}

type Usecase struct {
	repo     loan.Repository
	uow      uow.UnitOfWork
	notifier Notifier
	log      *zap.Logger
}

func NewUsecase(repo loan.Repository, tx uow.UnitOfWork, n Notifier, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, notifier: n, log: log}
}

// List returns every loan matching f, newest first. The status filter
// applies to the projected status.
func (u *Usecase) List(ctx context.Context, f loan.Filter) ([]loanUC.LoanDTO, error) {
	all, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]loan.Loan, 0, len(all))
	for _, l := range all {
		p := loan.Project(l)
		if f.Match(&p) {
			out = append(out, p)
		}
	}
	loan.SortNewestFirst(out)
	return loanUC.ToDTOs(out), nil
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	all, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var requested, disbursed, repaid, outstanding decimal.Decimal
	counts := emptyCounts()
	for _, l := range all {
		p := loan.Project(l)
		counts[string(p.Status)]++
		amt := decimal.NewFromFloat(p.Amount)
		requested = requested.Add(amt)
		repaid = repaid.Add(decimal.NewFromFloat(p.TotalPaid))
		if p.Status == loan.StatusDisbursed || p.Status == loan.StatusClosed {
			disbursed = disbursed.Add(amt)
		}
		if p.Status.Payable() {
			outstanding = outstanding.Add(decimal.NewFromFloat(p.Remaining()))
		}
	}
	return &StatsDTO{
		Total:          len(all),
		ByStatus:       counts,
		TotalRequested: requested.InexactFloat64(),
		TotalDisbursed: disbursed.InexactFloat64(),
		TotalRepaid:    repaid.InexactFloat64(),
		Outstanding:    outstanding.InexactFloat64(),
	}, nil
}

// SetStatus moves a loan to target on a manager's behalf. The owner is
// notified after commit; a failed notification is reported, not returned.
func (u *Usecase) SetStatus(ctx context.Context, ref, target, manager string) (*loanUC.StatusChangeDTO, error) {
	st, ok := loan.ParseStatus(strings.TrimSpace(target))
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", loan.ErrInvalidInput, target)
	}
	action, err := loan.ManagerAction(st)
	if err != nil {
		return nil, err
	}

	var (
		snapshot loan.Loan
		from     loan.Status
	)
	err = u.uow.WithinLoanTx(ctx, ref, func(r uow.Repos, l *loan.Loan) error {
		from = l.Status
		next, err := loan.Transition(l.Status, action, loan.ActorManager)
		if err != nil {
			return err
		}
		l.Status = next
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		snapshot = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan status changed",
		zap.String("loan_id", snapshot.PublicID()),
		zap.String("from", string(from)),
		zap.String("to", string(snapshot.Status)),
		zap.String("manager", manager))

	out := notification.Outcome{Reason: "no notification sent: notifier not configured"}
	if u.notifier != nil {
		out = u.notifier.NotifyUser(ctx, &snapshot, snapshot.Status)
	}
	return &loanUC.StatusChangeDTO{Loan: loanUC.ToDTO(snapshot), Notification: out}, nil
}

// Delete soft-deletes a loan. It bypasses the lifecycle.
func (u *Usecase) Delete(ctx context.Context, ref, manager string) error {
	if err := u.repo.Remove(ctx, ref, manager); err != nil {
		return err
	}
	u.log.Warn("loan deleted", zap.String("loan_ref", ref), zap.String("manager", manager))
	return nil
}
