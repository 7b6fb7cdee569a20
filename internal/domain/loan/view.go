package loan

import (
	"sort"
	"strings"
)

// Project returns the snapshot shown to people. Approved loans read as
// Disbursed: funds are released as soon as a loan is approved. The stored
// record keeps Approved until its next write.
func Project(l Loan) Loan {
	if l.Status == StatusApproved {
		l.Status = StatusDisbursed
	}
	return l
}

// Progress is the completion percentage of the status step tracker.
func (s Status) Progress() int {
	switch s {
	case StatusPending:
		return 10
	case StatusUnderReview:
		return 30
	case StatusApproved:
		return 60
	case StatusDisbursed:
		return 85
	case StatusClosed, StatusRejected:
		return 100
	}
	return 0
}

// SortNewestFirst orders loans by creation time, newest first.
func SortNewestFirst(loans []Loan) {
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].CreatedAt.After(loans[j].CreatedAt)
	})
}

// Filter narrows a manager's loan listing. Zero values match everything.
type Filter struct {
	Query     string
	Status    Status
	MinAmount *float64
	MaxAmount *float64
}

func (f Filter) Match(l *Loan) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		fields := []string{l.LoanNumber, l.UserID, l.ApplicantName, l.Type, l.Purpose}
		hit := false
		for _, v := range fields {
			if strings.Contains(strings.ToLower(v), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.MinAmount != nil && l.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && l.Amount > *f.MaxAmount {
		return false
	}
	return true
}
