package review

import "loanflow/internal/domain/loan"

// StatsDTO summarises the loan book as managers see it. Counts use the
// projected status.
type StatsDTO struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	TotalRequested float64        `json:"totalRequested"`
	TotalDisbursed float64        `json:"totalDisbursed"`
	TotalRepaid    float64        `json:"totalRepaid"`
	Outstanding    float64        `json:"outstanding"`
}

func emptyCounts() map[string]int {
	m := make(map[string]int, len(loan.Statuses))
	for _, s := range loan.Statuses {
		m[string(s)] = 0
	}
	return m
}
