package loan

import (
	"fmt"
	"math"
	"time"

	"loanflow/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	Type repayment.Type
	// Only read for custom payments.
	Amount float64
}

type PaymentResult struct {
	Repayment repayment.Repayment
	Applied   float64
	Remaining float64
	// Closed is set when this payment settled the loan.
	Closed bool
}

// Remaining is the outstanding balance.
func (l *Loan) Remaining() float64 {
	return balance(l).InexactFloat64()
}

func balance(l *Loan) decimal.Decimal {
	rem := decimal.NewFromFloat(l.Amount).Sub(decimal.NewFromFloat(l.TotalPaid))
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// ApplyPayment applies one payment to l in place. The caller must hold the
// loan's write lock and persist both the loan and the returned repayment.
func ApplyPayment(l *Loan, req PaymentRequest, now time.Time) (*PaymentResult, error) {
	if !l.Status.Payable() {
		return nil, fmt.Errorf("%w: status %s", ErrNotPayable, l.Status)
	}
	remaining := balance(l)
	if !remaining.IsPositive() {
		return nil, fmt.Errorf("%w: nothing outstanding", ErrNotPayable)
	}

	var applied decimal.Decimal
	switch req.Type {
	case repayment.TypeMonthly:
		applied = decimal.NewFromFloat(l.MonthlyInstallment)
	case repayment.TypeFull:
		applied = remaining
	case repayment.TypeCustom:
		if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, req.Amount)
		}
		applied = decimal.NewFromFloat(req.Amount)
	default:
		return nil, fmt.Errorf("%w: unknown payment type %q", ErrInvalidAmount, req.Type)
	}
	if applied.GreaterThan(remaining) {
		applied = remaining
	}

	paid := decimal.NewFromFloat(l.TotalPaid).Add(applied)
	next := l.Status
	closed := paid.Equal(decimal.NewFromFloat(l.Amount))
	var err error
	switch {
	case closed:
		next, err = Transition(l.Status, ActionClose, ActorSystem)
	case l.Status == StatusApproved:
		next, err = Transition(l.Status, ActionDisburse, ActorSystem)
	}
	if err != nil {
		return nil, err
	}

	r := repayment.Repayment{
		LoanID: l.ID,
		Type:   req.Type,
		Amount: applied.InexactFloat64(),
		PaidAt: now.UTC(),
	}
	l.Repayments = append(l.Repayments, r)
	l.TotalPaid = paid.InexactFloat64()
	l.Status = next

	return &PaymentResult{
		Repayment: r,
		Applied:   r.Amount,
		Remaining: balance(l).InexactFloat64(),
		Closed:    closed,
	}, nil
}
