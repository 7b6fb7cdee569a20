package mysql

import (
	"context"

	repaymentDomain "loanflow/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(ctx context.Context, p *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByLoan returns the loan's repayments oldest first.
func (r *RepaymentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
