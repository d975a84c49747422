package model

import "time"

type SubBookingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type BookingOption struct {
	Value       string             `json:"value"`
	Label       string             `json:"label"`
	SubBookings []SubBookingOption `json:"sub_bookings"`
}

type ContactUsContext struct {
	Account  AccountProfile  `json:"account"`
	Bookings []BookingOption `json:"bookings"`
}

type ContactUsRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Subject      string `json:"subject" validate:"required,min=3,max=150"`
	Category     string `json:"category" validate:"required,oneof=booking payment account other"`
	BookingID    string `json:"booking_id" validate:"required_if=Category booking,max=64"`
	SubBookingID string `json:"sub_booking_id" validate:"max=64"`
	Message      string `json:"message" validate:"required,min=10,max=2000"`
}

type SupportTicket struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject      string    `json:"subject" bson:"subject"`
	Category     string    `json:"category" bson:"category"`
	BookingID    string    `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	SubBookingID string    `json:"sub_booking_id,omitempty" bson:"sub_booking_id,omitempty"`
	Message      string    `json:"message" bson:"message"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type ContactUsReceipt struct {
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}
