package model

import "time"

const (
	EventSupportInquirySubmitted = "support.inquiry.submitted"
	EventBookingCancelled        = "booking.cancelled"
	EventCartCheckedOut          = "cart.checked_out"
	EventBookingStatusChanged    = "booking.status.changed"

	EventSource        = "hotelbox-portal"
	EventSchemaVersion = "1"
)

type InquirySubmittedEvent struct {
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	BookingID string    `json:"booking_id,omitempty"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingCancelledEvent struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type CartCheckedOutEvent struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	RoomCount int       `json:"room_count"`
	Total     float64   `json:"total"`
	At        time.Time `json:"at"`
}

// BookingStatusEvent arrives from the booking backend when an approver acts.
type BookingStatusEvent struct {
	BookingID string        `json:"booking_id"`
	UserID    string        `json:"user_id"`
	Status    BookingStatus `json:"status"`
	Message   string        `json:"message,omitempty"`
}

// NotificationType maps a status change to the setting that gates it.
func (e BookingStatusEvent) NotificationType() (NotificationType, bool) {
	switch e.Status {
	case BookingApproved:
		return NotificationBooking, true
	case BookingRejected:
		return NotificationReject, true
	}
	return "", false
}
