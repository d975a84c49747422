package client

import "time"

// Upstream groups the typed clients of the hotel booking backend.
type Upstream struct {
	Bookings      *BookingClient
	Cart          *CartClient
	Notifications *NotificationClient
	Account       *AccountClient
	Hotels        *HotelClient
	Auth          *AuthClient
}

func NewUpstream(baseURL string, timeout time.Duration) *Upstream {
	httpClient := NewHttpClient(baseURL, timeout)
	return &Upstream{
		Bookings:      NewBookingClient(httpClient),
		Cart:          NewCartClient(httpClient),
		Notifications: NewNotificationClient(httpClient),
		Account:       NewAccountClient(httpClient),
		Hotels:        NewHotelClient(httpClient),
		Auth:          NewAuthClient(httpClient),
	}
}
