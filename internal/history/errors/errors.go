package errors

import "errors"

var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrReceiptRequired   = errors.New("receipt file is required")
	ErrReceiptType       = errors.New("unsupported receipt type")
	ErrBookingIDRequired = errors.New("booking id is required")
)
