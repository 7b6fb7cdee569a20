package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotPayable        = errors.New("loan is not payable")
	ErrInvalidAmount     = errors.New("invalid payment amount")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotOwner          = errors.New("loan belongs to another user")
	ErrDuplicate         = errors.New("loan identifier already taken")
)
