package loan

import (
	"time"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/notification"
)

type ApplyInput struct {
	UserID         string
	Type           string
	Amount         float64
	TenureYears    int
	PaymentOption  string
	ApplicantName  string
	ApplicantEmail string
	Purpose        string
	Documents      []string
}

type PayInput struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

type RepaymentDTO struct {
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// LoanDTO is the outward view of a loan, applicant and manager side alike.
type LoanDTO struct {
	ID                 string         `json:"id"`
	LoanID             string         `json:"loanId"`
	UserID             string         `json:"userId"`
	Type               string         `json:"type"`
	Amount             float64        `json:"amount"`
	TenureYears        int            `json:"tenureYears"`
	PaymentOption      string         `json:"paymentOption"`
	RepaymentMonths    int            `json:"repaymentMonths"`
	MonthlyInstallment float64        `json:"monthlyInstallment"`
	TotalPaid          float64        `json:"totalPaid"`
	Remaining          float64        `json:"remaining"`
	Progress           int            `json:"progress"`
	Repayments         []RepaymentDTO `json:"repayments"`
	Status             string         `json:"status"`
	ApplicantName      string         `json:"applicantName"`
	ApplicantEmail     string         `json:"applicantEmail"`
	Purpose            string         `json:"purpose"`
	Documents          []string       `json:"documents"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// StatusChangeDTO is returned by every status change. The notification
// outcome never affects whether the change happened.
type StatusChangeDTO struct {
	Loan         LoanDTO              `json:"loan"`
	Notification notification.Outcome `json:"notification"`
}

type PaymentDTO struct {
	Loan      LoanDTO      `json:"loan"`
	Payment   RepaymentDTO `json:"payment"`
	Remaining float64      `json:"remaining"`
	Closed    bool         `json:"closed"`
	// Set only when the payment closed the loan.
	Notification *notification.Outcome `json:"notification,omitempty"`
}

// ToDTO projects l and flattens it for the wire.
func ToDTO(l loan.Loan) LoanDTO {
	l = loan.Project(l)
	reps := make([]RepaymentDTO, 0, len(l.Repayments))
	for _, r := range l.Repayments {
		reps = append(reps, RepaymentDTO{Type: string(r.Type), Amount: r.Amount, Timestamp: r.PaidAt})
	}
	docs := []string(l.Documents)
	if docs == nil {
		docs = []string{}
	}
	return LoanDTO{
		ID:                 l.UID,
		LoanID:             l.PublicID(),
		UserID:             l.UserID,
		Type:               l.Type,
		Amount:             l.Amount,
		TenureYears:        l.TenureYears,
		PaymentOption:      string(l.PaymentOption),
		RepaymentMonths:    l.RepaymentMonths,
		MonthlyInstallment: l.MonthlyInstallment,
		TotalPaid:          l.TotalPaid,
		Remaining:          l.Remaining(),
		Progress:           l.Status.Progress(),
		Repayments:         reps,
		Status:             string(l.Status),
		ApplicantName:      l.ApplicantName,
		ApplicantEmail:     l.ApplicantEmail,
		Purpose:            l.Purpose,
		Documents:          docs,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func ToDTOs(ls []loan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, ToDTO(l))
	}
	return out
}
