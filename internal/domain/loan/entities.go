package loan

import (
	"time"

	"loanflow/internal/domain/repayment"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending     Status = "Pending"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusDisbursed   Status = "Disbursed"
	StatusRejected    Status = "Rejected"
	StatusWithdrawn   Status = "Withdrawn"
	StatusClosed      Status = "Closed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusUnderReview,
	StatusApproved,
	StatusDisbursed,
	StatusRejected,
	StatusWithdrawn,
	StatusClosed,
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusRejected || s == StatusWithdrawn
}

// Payable reports whether repayments may be appended in this status.
func (s Status) Payable() bool {
	return s == StatusApproved || s == StatusDisbursed
}

type PaymentOption string

const (
	PaymentOptionEMI  PaymentOption = "emi"
	PaymentOptionFull PaymentOption = "full"
)

func (o PaymentOption) Valid() bool { return o == PaymentOptionEMI || o == PaymentOptionFull }

type Loan struct {
	ID                 uint64                      `gorm:"primaryKey;column:id" json:"-"`
	UID                string                      `gorm:"column:uid;size:32;uniqueIndex;not null" json:"id"`
	LoanNumber         string                      `gorm:"column:loan_number;size:32;uniqueIndex;not null" json:"loanId"`
	UserID             string                      `gorm:"column:user_id;size:64;index;not null" json:"userId"`
	Type               string                      `gorm:"column:type;size:64;not null" json:"type"`
	Amount             float64                     `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	TenureYears        int                         `gorm:"column:tenure_years;not null;default:1" json:"tenureYears"`
	PaymentOption      PaymentOption               `gorm:"column:payment_option;size:8;not null" json:"paymentOption"`
	RepaymentMonths    int                         `gorm:"column:repayment_months;not null" json:"repaymentMonths"`
	MonthlyInstallment float64                     `gorm:"column:monthly_installment;type:decimal(18,2);not null" json:"monthlyInstallment"`
	TotalPaid          float64                     `gorm:"column:total_paid;type:decimal(18,2);not null;default:0" json:"totalPaid"`
	Repayments         []repayment.Repayment       `gorm:"foreignKey:LoanID" json:"repayments"`
	Status             Status                      `gorm:"column:status;size:16;index;not null;default:'Pending'" json:"status"`
	ApplicantName      string                      `gorm:"column:applicant_name;size:128" json:"applicantName"`
	ApplicantEmail     string                      `gorm:"column:applicant_email;size:255" json:"applicantEmail"`
	Purpose            string                      `gorm:"column:purpose;type:text" json:"purpose"`
	Documents          datatypes.JSONSlice[string] `gorm:"column:documents" json:"documents"`
	CreatedAt          time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt          gorm.DeletedAt              `gorm:"column:deleted_at;index" json:"-"`
	DeletedBy          string                      `gorm:"column:deleted_by;size:64" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// PublicID is the identifier shown to people: the loan number when present,
// the uid otherwise.
func (l *Loan) PublicID() string {
	if l.LoanNumber != "" {
		return l.LoanNumber
	}
	return l.UID
}
