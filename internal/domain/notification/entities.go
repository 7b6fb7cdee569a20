package notification

import (
	"time"

	"loanflow/internal/domain/loan"
)

// Notification is the message handed to the delivery side. It is plain JSON
// so it can sit in a queue and be retried.
type Notification struct {
	ID            string      `json:"id"`
	Recipient     string      `json:"email"`
	ApplicantName string      `json:"name"`
	LoanID        string      `json:"loanId"`
	LoanType      string      `json:"loanType"`
	Amount        float64     `json:"amount"`
	TenureYears   int         `json:"tenureYears"`
	Status        loan.Status `json:"status"`
	Subject       string      `json:"subject"`
	Body          string      `json:"body"`
	CreatedAt     time.Time   `json:"createdAt"`
	Attempts      int         `json:"attempts"`
}

// Recipient is who the notification goes to.
type Recipient struct {
	Email string
	Name  string
}

// Outcome reports what happened to the notification of a status change.
// It never carries a failure of the status change itself.
type Outcome struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}
