package model

import (
	"fmt"
	"time"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelWeb   Channel = "web"
)

var Channels = []Channel{ChannelEmail, ChannelWeb}

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelWeb:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown notification channel %q", s)
}

type NotificationType string

const (
	NotificationBooking NotificationType = "booking"
	NotificationReject  NotificationType = "reject"
	NotificationAll     NotificationType = "all"
)

// ParseOption accepts only the individually toggleable types.
func ParseOption(s string) (NotificationType, error) {
	switch NotificationType(s) {
	case NotificationBooking, NotificationReject:
		return NotificationType(s), nil
	}
	return "", fmt.Errorf("unknown notification option %q", s)
}

// NotificationSetting is the backend's persisted representation.
type NotificationSetting struct {
	Channel  Channel          `json:"channel" validate:"required,oneof=email web"`
	Type     NotificationType `json:"type" validate:"required,oneof=booking reject all"`
	IsEnable bool             `json:"is_enable"`
}

// ChannelState is the portal's view of one channel. AllChecked and Enabled
// are derived from Booking and Reject.
type ChannelState struct {
	Enabled    bool `json:"enabled"`
	Booking    bool `json:"booking"`
	Reject     bool `json:"reject"`
	AllChecked bool `json:"all_checked"`
}

type NotificationSettingsView struct {
	Email ChannelState `json:"email"`
	Web   ChannelState `json:"web"`
}

type ToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type Notification struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	UserID      string     `json:"user_id"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}
