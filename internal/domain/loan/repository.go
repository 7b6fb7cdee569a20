package loan

import "context"

// Repository resolves loans by ref, which is either the uid or the loan number.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Get(ctx context.Context, ref string) (*Loan, error)
	// Row-locked read; only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, ref string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListByUser(ctx context.Context, userID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	Remove(ctx context.Context, ref, deletedBy string) error
}
