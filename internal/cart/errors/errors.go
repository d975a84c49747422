package errors

import "errors"

var (
	ErrCandidateNotFound = errors.New("guest candidate not found")
	ErrGuestRequired     = errors.New("either user_id or name is required")
	ErrEmptyCart         = errors.New("cart is empty")
)
