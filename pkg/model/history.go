package model

import "fmt"

type BookingStatus string

const (
	BookingApproved BookingStatus = "approved"
	BookingWaiting  BookingStatus = "waiting"
	BookingRejected BookingStatus = "rejected"
)

var bookingStatusLabels = map[BookingStatus]string{
	BookingApproved: "Confirmed",
	BookingWaiting:  "Waiting Approval",
	BookingRejected: "Rejected",
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if _, ok := bookingStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

func (s BookingStatus) Label() string {
	return bookingStatusLabels[s]
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentPaid:   "Paid",
	PaymentUnpaid: "Unpaid",
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if _, ok := paymentStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return st, nil
}

func (s PaymentStatus) Label() string {
	return paymentStatusLabels[s]
}

// HistoryRecord is a row of GET /bookings/history as the backend sends it.
type HistoryRecord struct {
	BookingID     string          `json:"booking_id"`
	GuestName     string          `json:"guest_name"`
	AgentName     string          `json:"agent_name,omitempty"`
	BookingStatus string          `json:"booking_status"`
	PaymentStatus string          `json:"payment_status"`
	Detail        []HistoryDetail `json:"detail,omitempty"`
	Receipt       string          `json:"receipt,omitempty"`
}

type HistoryDetail struct {
	SubBookingID  string  `json:"sub_booking_id"`
	HotelName     string  `json:"hotel_name"`
	RoomTypeName  string  `json:"room_type_name"`
	CheckInDate   string  `json:"check_in_date"`
	CheckOutDate  string  `json:"check_out_date"`
	Guest         string  `json:"guest"`
	TotalPrice    float64 `json:"total_price"`
	BookingStatus string  `json:"booking_status,omitempty"`
}

// HistoryBooking is the portal row with closed statuses and their labels.
type HistoryBooking struct {
	Number           int             `json:"number"`
	BookingID        string          `json:"booking_id"`
	GuestName        string          `json:"guest_name"`
	AgentName        string          `json:"agent_name,omitempty"`
	BookingStatus    BookingStatus   `json:"booking_status"`
	BookingLabel     string          `json:"booking_status_label"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentLabel     string          `json:"payment_status_label"`
	InvoiceCount     int             `json:"invoice_count"`
	CanViewReceipt   bool            `json:"can_view_receipt"`
	CanUploadReceipt bool            `json:"can_upload_receipt"`
	Detail           []HistoryDetail `json:"detail,omitempty"`
	Receipt          string          `json:"receipt,omitempty"`
}

type HistoryQuery struct {
	Page          int
	Limit         int
	Search        string
	BookingStatus []BookingStatus
	PaymentStatus []PaymentStatus
}

type HistoryPage struct {
	Bookings   []HistoryBooking `json:"bookings"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}
