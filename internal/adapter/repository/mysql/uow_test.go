package mysql

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"loanflow/internal/config"
	loanDomain "loanflow/internal/domain/loan"
	"loanflow/internal/domain/repayment"
	"loanflow/internal/domain/uow"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	payRepo := NewRepaymentRepository(db)

	l := makeLoan("u-1")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		return r.Repayments.Create(ctx, &repayment.Repayment{LoanID: l.ID, Type: repayment.TypeFull, Amount: 10, PaidAt: time.Now()})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.Get(ctx, l.UID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	rows, err := payRepo.ListByLoan(ctx, l.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("repayment not visible after commit: rows=%d err=%v", len(rows), err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	l := makeLoan("u-2")
	sentinel := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}
	if _, err := loanRepo.Get(ctx, l.UID); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	seed := makeLoan("u-3")
	seed.Status = loanDomain.StatusApproved
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	err := guow.WithinLoanTx(ctx, seed.LoanNumber, func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.UID != seed.UID || l.Status != loanDomain.StatusApproved {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		res, err := loanDomain.ApplyPayment(l, loanDomain.PaymentRequest{Type: repayment.TypeMonthly}, time.Now())
		if err != nil {
			return err
		}
		if err := r.Repayments.Create(ctx, &res.Repayment); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := loanRepo.Get(ctx, seed.UID)
	if err != nil {
		t.Fatalf("Get post-commit: %v", err)
	}
	if got.Status != loanDomain.StatusDisbursed || got.TotalPaid != 1_000 || len(got.Repayments) != 1 {
		t.Fatalf("payment not persisted: status=%s paid=%v repayments=%d", got.Status, got.TotalPaid, len(got.Repayments))
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	seed := makeLoan("u-4")
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, seed.UID, func(r uow.Repos, l *loanDomain.Loan) error {
		l.Status = loanDomain.StatusWithdrawn
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := loanRepo.Get(ctx, seed.UID)
	if err != nil {
		t.Fatalf("post-rollback Get: %v", err)
	}
	if got.Status != loanDomain.StatusPending {
		t.Fatalf("expected Pending after rollback, got %s", got.Status)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	guow := NewGormUoW(openTestDB(t))

	err := guow.WithinLoanTx(context.Background(), "LN-NOPE", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// openFileDB opens a file-backed sqlite database the way the api does, so
// concurrent writers contend for the real database lock.
func openFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "loans.db")}
	db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&loanDomain.Loan{}, &repayment.Repayment{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGormUoW_WithinLoanTx_ConcurrentPayments(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	seed := makeLoan("u-5")
	seed.Status = loanDomain.StatusDisbursed
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	const payers = 10
	var wg sync.WaitGroup
	errs := make(chan error, payers)
	for i := 0; i < payers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- guow.WithinLoanTx(ctx, seed.UID, func(r uow.Repos, l *loanDomain.Loan) error {
				res, err := loanDomain.ApplyPayment(l, loanDomain.PaymentRequest{Type: repayment.TypeMonthly}, time.Now())
				if err != nil {
					return err
				}
				if err := r.Repayments.Create(ctx, &res.Repayment); err != nil {
					return err
				}
				return r.Loans.Save(ctx, l)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent payment failed: %v", err)
		}
	}

	got, err := loanRepo.Get(ctx, seed.UID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rows, err := NewRepaymentRepository(db).ListByLoan(ctx, seed.ID)
	if err != nil {
		t.Fatalf("ListByLoan: %v", err)
	}
	if len(rows) != payers {
		t.Fatalf("want %d repayments, got %d", payers, len(rows))
	}
	if want := float64(len(rows)) * seed.MonthlyInstallment; got.TotalPaid != want {
		t.Fatalf("total paid %v, want %v", got.TotalPaid, want)
	}
}

func TestTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"not found", loanDomain.ErrNotFound, false},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"sqlite locked wrapped", fmt.Errorf("save: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), true},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"mysql deadlock", &mysqldrv.MySQLError{Number: 1213}, true},
		{"mysql lock wait", &mysqldrv.MySQLError{Number: 1205}, true},
		{"mysql duplicate", &mysqldrv.MySQLError{Number: 1062}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := transient(tc.err); got != tc.want {
				t.Fatalf("transient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestGormUoW_WithinLoanTx_DoesNotRetryDomainErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	seed := makeLoan("u-6")
	if err := NewLoanRepository(db).Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	calls := 0
	err := guow.WithinLoanTx(ctx, seed.UID, func(r uow.Repos, l *loanDomain.Loan) error {
		calls++
		return loanDomain.ErrNotOwner
	})
	if !errors.Is(err, loanDomain.ErrNotOwner) {
		t.Fatalf("want ErrNotOwner, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
}

func TestGormUoW_WithinLoanTx_RetriesBusyLock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	seed := makeLoan("u-7")
	if err := NewLoanRepository(db).Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	calls := 0
	err := guow.WithinLoanTx(ctx, seed.UID, func(r uow.Repos, l *loanDomain.Loan) error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	if calls != 3 {
		t.Fatalf("callback ran %d times, want 3", calls)
	}
}
