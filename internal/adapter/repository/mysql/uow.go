package mysql

import (
	"context"
	"time"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/uow"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// lock contention retries for WithinLoanTx
const (
	txRetries   = 5
	txRetryBase = 10 * time.Millisecond
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:      &LoanRepository{db: tx},
		Repayments: &RepaymentRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

// WithinLoanTx reruns the whole transaction when the database reports a
// deadlock or a busy lock; fn must not have side effects outside r.
func (u *GormUoW) WithinLoanTx(ctx context.Context, ref string, fn func(r uow.Repos, l *loan.Loan) error) error {
	backoff := retry.WithMaxRetries(txRetries, retry.NewExponential(txRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r := repos(tx)
			// lock the loan row up-front; every mutation of one loan goes through here
			l, err := r.Loans.GetForUpdate(ctx, ref)
			if err != nil {
				return err
			}
			return fn(r, l)
		})
		if transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
