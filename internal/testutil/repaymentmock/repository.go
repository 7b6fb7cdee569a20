package repaymentmock

import (
	"context"

	domain "loanflow/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, p *domain.Repayment) error
	ListByLoanFn func(ctx context.Context, loanID uint64) ([]domain.Repayment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Repayment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, context.Canceled
}
