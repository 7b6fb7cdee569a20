package loanmock

import (
	"context"

	domain "loanflow/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn       func(ctx context.Context, l *domain.Loan) error
	GetFn          func(ctx context.Context, ref string) (*domain.Loan, error)
	GetForUpdateFn func(ctx context.Context, ref string) (*domain.Loan, error)
	SaveFn         func(ctx context.Context, l *domain.Loan) error
	ListByUserFn   func(ctx context.Context, userID string) ([]domain.Loan, error)
	ListAllFn      func(ctx context.Context) ([]domain.Loan, error)
	RemoveFn       func(ctx context.Context, ref, deletedBy string) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, ref string) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, ref string) (*domain.Loan, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Remove(ctx context.Context, ref, deletedBy string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, ref, deletedBy)
	}
	return nil
}
