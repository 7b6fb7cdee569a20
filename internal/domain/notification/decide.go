package notification

import (
	"fmt"
	"strings"
	"time"

	"loanflow/internal/domain/loan"

	"github.com/google/uuid"
)

var subjects = map[loan.Status]string{
	loan.StatusApproved:  "🎉 Congratulations! Your Loan is Approved",
	loan.StatusRejected:  "❌ Loan Application Result",
	loan.StatusWithdrawn: "ℹ️ Loan Request Withdrawn",
	loan.StatusClosed:    "🎉 Congratulations! Your Loan is Fully Repaid",
}

// Subject returns the subject line for a status and whether that status is
// announced at all.
func Subject(s loan.Status) (string, bool) {
	sub, ok := subjects[s]
	return sub, ok
}

// Decide works out whether the move of l to newStatus should be announced to
// to, and builds the message if so.
func Decide(l *loan.Loan, newStatus loan.Status, to Recipient, now time.Time) (*Notification, Outcome) {
	subject, ok := Subject(newStatus)
	if !ok {
		return nil, Outcome{Reason: fmt.Sprintf("no notification for status %s", newStatus)}
	}
	email := strings.TrimSpace(to.Email)
	if email == "" {
		return nil, Outcome{Reason: fmt.Sprintf("no notification sent: no email on file for user %s", l.UserID)}
	}
	name := to.Name
	if name == "" {
		name = l.ApplicantName
	}
	n := &Notification{
		ID:            uuid.NewString(),
		Recipient:     email,
		ApplicantName: name,
		LoanID:        l.PublicID(),
		LoanType:      l.Type,
		Amount:        l.Amount,
		TenureYears:   l.TenureYears,
		Status:        newStatus,
		Subject:       subject,
		CreatedAt:     now.UTC(),
	}
	n.Body = body(n)
	return n, Outcome{Sent: true}
}

func body(n *Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", n.ApplicantName)
	switch n.Status {
	case loan.StatusApproved:
		fmt.Fprintf(&b, "Your %s has been APPROVED.\n\n", n.LoanType)
		fmt.Fprintf(&b, "Loan ID: %s\nLoan Type: %s\nAmount: %.2f\nTenure: %d year(s)\n", n.LoanID, n.LoanType, n.Amount, n.TenureYears)
	case loan.StatusRejected:
		fmt.Fprintf(&b, "We regret to inform you that your %s request (Loan ID: %s) has been REJECTED.\n", n.LoanType, n.LoanID)
		b.WriteString("You may reapply once your profile meets the eligibility criteria.\n")
	case loan.StatusWithdrawn:
		fmt.Fprintf(&b, "Your %s request (Loan ID: %s) has been withdrawn.\n", n.LoanType, n.LoanID)
		b.WriteString("You can reapply at any time.\n")
	case loan.StatusClosed:
		fmt.Fprintf(&b, "Your %s (Loan ID: %s) of %.2f is fully repaid and now closed.\n", n.LoanType, n.LoanID, n.Amount)
	}
	b.WriteString("\nWarm Regards,\nLoan Team\n")
	return b.String()
}
