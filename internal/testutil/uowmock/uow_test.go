package uowmock

import (
	"context"
	"errors"
	"testing"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/uow"
	"loanflow/internal/testutil/loanmock"
	"loanflow/internal/testutil/repaymentmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	pays := &repaymentmock.Repo{}
	repos := uow.Repos{Loans: loans, Repayments: pays}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Repayments != pays {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinLoanTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("stop")
	m := New().WithWithinLoanTx(func(context.Context, string, func(uow.Repos, *loan.Loan) error) error {
		return sentinel
	})
	if err := m.WithinLoanTx(context.Background(), "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinLoanTx: want %v, got %v", sentinel, err)
	}
}

func TestPassthrough_LocksThroughRepo(t *testing.T) {
	ctx := context.Background()
	lock := &loan.Loan{ID: 7, UID: "LN-7"}
	loans := &loanmock.Repo{
		GetForUpdateFn: func(_ context.Context, ref string) (*loan.Loan, error) {
			if ref == "LN-7" {
				return lock, nil
			}
			return nil, loan.ErrNotFound
		},
	}
	m := Passthrough(uow.Repos{Loans: loans})

	var got *loan.Loan
	if err := m.WithinLoanTx(ctx, "LN-7", func(_ uow.Repos, l *loan.Loan) error {
		got = l
		return nil
	}); err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	if got != lock {
		t.Fatalf("loan not forwarded: %+v", got)
	}

	err := m.WithinLoanTx(ctx, "missing", func(uow.Repos, *loan.Loan) error {
		t.Fatalf("callback should not run for a missing loan")
		return nil
	})
	if !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinLoanTx(func(context.Context, string, func(uow.Repos, *loan.Loan) error) error { return nil })
	if m.WithinTxFn == nil || m.WithinLoanTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
