package mysql

import (
	"context"
	"errors"
	"fmt"

	loanDomain "loanflow/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Repayments are written through the repayment repository, never through the
// loan association.
func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) Get(ctx context.Context, ref string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.byRef(ctx, ref).First(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *LoanRepository) GetForUpdate(ctx context.Context, ref string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.byRef(ctx, ref).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.withRepayments(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.withRepayments(ctx).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// Remove soft-deletes the loan and records who did it.
func (r *LoanRepository) Remove(ctx context.Context, ref, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l loanDomain.Loan
		if err := tx.Where("uid = ? OR loan_number = ?", ref, ref).First(&l).Error; err != nil {
			return mapErr(err)
		}
		if err := tx.Model(&l).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&l).Error
	})
}

func (r *LoanRepository) withRepayments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Repayments", func(db *gorm.DB) *gorm.DB {
		return db.Order("repayments.id ASC")
	})
}

func (r *LoanRepository) byRef(ctx context.Context, ref string) *gorm.DB {
	return r.withRepayments(ctx).Where("uid = ? OR loan_number = ?", ref, ref)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return loanDomain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", loanDomain.ErrDuplicate, err)
	}
	return err
}
