package loan

import "github.com/shopspring/decimal"

type Schedule struct {
	RepaymentMonths    int
	MonthlyInstallment float64
}

// ComputeSchedule splits the principal into equal monthly installments,
// rounding each installment up to a whole unit. The last installment may
// therefore overpay; the ledger caps it at the remaining balance.
func ComputeSchedule(amount float64, tenureYears int, option PaymentOption) Schedule {
	months := 1
	if option != PaymentOptionFull {
		months = max(1, tenureYears) * 12
	}
	if months <= 0 {
		return Schedule{RepaymentMonths: months, MonthlyInstallment: amount}
	}
	installment := decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(months))).
		Ceil()
	return Schedule{
		RepaymentMonths:    months,
		MonthlyInstallment: installment.InexactFloat64(),
	}
}
