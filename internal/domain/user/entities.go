package user

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// User is the slice of the user record the loan side cares about.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Directory looks up the current contact details of a user.
type Directory interface {
	GetUser(ctx context.Context, userID string) (*User, error)
}
