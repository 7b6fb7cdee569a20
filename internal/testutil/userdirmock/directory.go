package userdirmock

import (
	"context"

	"loanflow/internal/domain/user"
)

var _ user.Directory = (*Directory)(nil)

// Directory is a function-backed user.Directory.
type Directory struct {
	GetUserFn func(ctx context.Context, userID string) (*user.User, error)
	Calls     []string
}

func (m *Directory) GetUser(ctx context.Context, userID string) (*user.User, error) {
	m.Calls = append(m.Calls, userID)
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, user.ErrNotFound
}
