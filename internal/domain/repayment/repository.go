package repayment

import "context"

type Repository interface {
	// Append a repayment row for a loan (numeric FK already set)
	Create(ctx context.Context, r *Repayment) error

	// List repayments of a loan in insertion order
	ListByLoan(ctx context.Context, loanID uint64) ([]Repayment, error)
}
