package repayment

import (
	"time"
)

// Type is the repayment option the applicant picked for a payment.
type Type string

const (
	TypeMonthly Type = "monthly"
	TypeFull    Type = "full"
	TypeCustom  Type = "custom"
)

func (t Type) Valid() bool {
	switch t {
	case TypeMonthly, TypeFull, TypeCustom:
		return true
	}
	return false
}

// Table: repayments. Rows are append-only; id order is chronological order.
type Repayment struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// FK to loans.id (numeric)
	LoanID    uint64    `gorm:"column:loan_id;not null;index" json:"-"`
	Type      Type      `gorm:"column:type;size:16;not null" json:"type"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PaidAt    time.Time `gorm:"column:paid_at;not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Repayment) TableName() string { return "repayments" }
