package errors

import "errors"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("check-out must be after check-in")
)
