package uow

import (
	"context"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/repayment"
)

// Repos are the repositories bound to one transaction.
type Repos struct {
	Loans      loan.Repository
	Repayments repayment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; ref is the uid or loan number
	WithinLoanTx(ctx context.Context, ref string, fn func(r Repos, l *loan.Loan) error) error
}
