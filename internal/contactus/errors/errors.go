package errors

import "errors"

var (
	ErrNotFound          = errors.New("support ticket not found")
	ErrDuplicateTicket   = errors.New("support ticket already exists")
	ErrUnknownBooking    = errors.New("booking does not belong to the account")
	ErrUnknownSubBooking = errors.New("sub booking does not belong to the booking")
	ErrTooManyInquiries  = errors.New("too many inquiries")
)
