package loan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/notification"
	"loanflow/internal/domain/repayment"
	"loanflow/internal/domain/uow"
	"loanflow/internal/domain/user"
	"loanflow/pkg/id"

	"go.uber.org/zap"
)

// Notifier announces an applicant-driven status change.
type Notifier interface {
	NotifyApplicant(ctx context.Context, l *loan.Loan, status loan.Status) notification.Outcome
}

const createAttempts = 3

type Usecase struct {
	repo     loan.Repository
	uow      uow.UnitOfWork
	notifier Notifier
	dir      user.Directory
	log      *zap.Logger
	now      func() time.Time
}

// NewUsecase wires the applicant flows. dir is optional and only fills in
// missing contact details at application time.
func NewUsecase(repo loan.Repository, tx uow.UnitOfWork, n Notifier, dir user.Directory, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, notifier: n, dir: dir, log: log, now: time.Now}
}

func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Type = strings.TrimSpace(in.Type)
	in.Purpose = strings.TrimSpace(in.Purpose)
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.ApplicantEmail = strings.TrimSpace(in.ApplicantEmail)

	switch {
	case in.UserID == "":
		return nil, fmt.Errorf("%w: user id is required", loan.ErrInvalidInput)
	case in.Type == "":
		return nil, fmt.Errorf("%w: loan type is required", loan.ErrInvalidInput)
	case in.Purpose == "":
		return nil, fmt.Errorf("%w: purpose is required", loan.ErrInvalidInput)
	case math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0:
		return nil, fmt.Errorf("%w: amount must be positive", loan.ErrInvalidInput)
	case in.TenureYears < 0:
		return nil, fmt.Errorf("%w: tenure must be positive", loan.ErrInvalidInput)
	}
	if in.TenureYears == 0 {
		in.TenureYears = 1
	}
	option := loan.PaymentOption(strings.ToLower(strings.TrimSpace(in.PaymentOption)))
	if option == "" {
		option = loan.PaymentOptionEMI
	}
	if !option.Valid() {
		return nil, fmt.Errorf("%w: unknown payment option %q", loan.ErrInvalidInput, in.PaymentOption)
	}

	if (in.ApplicantName == "" || in.ApplicantEmail == "") && u.dir != nil {
		if usr, err := u.dir.GetUser(ctx, in.UserID); err != nil {
			u.log.Warn("applicant lookup failed", zap.String("user_id", in.UserID), zap.Error(err))
		} else {
			if in.ApplicantName == "" {
				in.ApplicantName = usr.Name
			}
			if in.ApplicantEmail == "" {
				in.ApplicantEmail = usr.Email
			}
		}
	}

	now := u.now().UTC()
	s := loan.ComputeSchedule(in.Amount, in.TenureYears, option)
	l := &loan.Loan{
		UID:                id.NewID32(),
		LoanNumber:         id.NewLoanNumber(now),
		UserID:             in.UserID,
		Type:               in.Type,
		Amount:             in.Amount,
		TenureYears:        in.TenureYears,
		PaymentOption:      option,
		RepaymentMonths:    s.RepaymentMonths,
		MonthlyInstallment: s.MonthlyInstallment,
		Status:             loan.StatusPending,
		ApplicantName:      in.ApplicantName,
		ApplicantEmail:     in.ApplicantEmail,
		Purpose:            in.Purpose,
		Documents:          append([]string{}, in.Documents...),
		CreatedAt:          now,
	}
	if err := u.create(ctx, l, now); err != nil {
		return nil, err
	}
	u.log.Info("loan applied",
		zap.String("loan_id", l.LoanNumber),
		zap.String("user_id", l.UserID),
		zap.Float64("amount", l.Amount),
		zap.Int("repayment_months", l.RepaymentMonths))

	dto := ToDTO(*l)
	return &dto, nil
}

// create inserts l, drawing fresh identifiers when the unique index rejects them.
func (u *Usecase) create(ctx context.Context, l *loan.Loan, now time.Time) error {
	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		if err = u.repo.Create(ctx, l); !errors.Is(err, loan.ErrDuplicate) {
			return err
		}
		u.log.Warn("loan identifier collision, retrying",
			zap.String("loan_id", l.LoanNumber),
			zap.Int("attempt", attempt))
		l.UID = id.NewID32()
		l.LoanNumber = id.NewLoanNumber(now)
	}
	return err
}

func (u *Usecase) ListMine(ctx context.Context, userID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	loan.SortNewestFirst(ls)
	return ToDTOs(ls), nil
}

func (u *Usecase) Get(ctx context.Context, userID, ref string) (*LoanDTO, error) {
	l, err := u.repo.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, loan.ErrNotOwner
	}
	dto := ToDTO(*l)
	return &dto, nil
}

func (u *Usecase) Withdraw(ctx context.Context, userID, ref string) (*StatusChangeDTO, error) {
	var snapshot loan.Loan
	err := u.uow.WithinLoanTx(ctx, ref, func(r uow.Repos, l *loan.Loan) error {
		if l.UserID != userID {
			return loan.ErrNotOwner
		}
		next, err := loan.Transition(l.Status, loan.ActionWithdraw, loan.ActorApplicant)
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
	u.log.Info("loan withdrawn", zap.String("loan_id", snapshot.PublicID()), zap.String("user_id", userID))

	return &StatusChangeDTO{
		Loan:         ToDTO(snapshot),
		Notification: u.notify(ctx, &snapshot, loan.StatusWithdrawn),
	}, nil
}

func (u *Usecase) Pay(ctx context.Context, userID, ref string, in PayInput) (*PaymentDTO, error) {
	t := repayment.Type(strings.ToLower(strings.TrimSpace(in.Type)))
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", loan.ErrInvalidAmount, in.Type)
	}

	var (
		snapshot loan.Loan
		res      *loan.PaymentResult
	)
	err := u.uow.WithinLoanTx(ctx, ref, func(r uow.Repos, l *loan.Loan) error {
		if l.UserID != userID {
			return loan.ErrNotOwner
		}
		var err error
		res, err = loan.ApplyPayment(l, loan.PaymentRequest{Type: t, Amount: in.Amount}, u.now())
		if err != nil {
			return err
		}
		if err := r.Repayments.Create(ctx, &res.Repayment); err != nil {
			return err
		}
		l.Repayments[len(l.Repayments)-1] = res.Repayment
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		snapshot = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("payment recorded",
		zap.String("loan_id", snapshot.PublicID()),
		zap.String("type", string(t)),
		zap.Float64("applied", res.Applied),
		zap.Float64("remaining", res.Remaining),
		zap.Bool("closed", res.Closed))

	dto := &PaymentDTO{
		Loan: ToDTO(snapshot),
		Payment: RepaymentDTO{
			Type:      string(res.Repayment.Type),
			Amount:    res.Applied,
			Timestamp: res.Repayment.PaidAt,
		},
		Remaining: res.Remaining,
		Closed:    res.Closed,
	}
	if res.Closed {
		out := u.notify(ctx, &snapshot, loan.StatusClosed)
		dto.Notification = &out
	}
	return dto, nil
}

// notify runs after commit; its outcome is informational only.
func (u *Usecase) notify(ctx context.Context, l *loan.Loan, status loan.Status) notification.Outcome {
	if u.notifier == nil {
		return notification.Outcome{Reason: "no notification sent: notifier not configured"}
	}
	return u.notifier.NotifyApplicant(ctx, l, status)
}
