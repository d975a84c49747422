// Package consumer turns booking status events from the backend into web
// toasts for the sessions of the affected agent.
package consumer

import (
	"context"
	"fmt"

	"hotelbox/pkg/client"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
)

type Sessions interface {
	ForUser(userID string) []*session.Session
}

type Preferences interface {
	Wants(ctx context.Context, sess *session.Session, channel model.Channel, t model.NotificationType) (bool, error)
}

type BookingStatusHandler struct {
	sessions Sessions
	prefs    Preferences
	log      *logger.Logger
}

func NewBookingStatusHandler(sessions Sessions, prefs Preferences, log *logger.Logger) *BookingStatusHandler {
	return &BookingStatusHandler{
		sessions: sessions,
		prefs:    prefs,
		log:      log,
	}
}

// Handle is a kafka.MessageHandler. Statuses without a matching setting
// (waiting) are ignored; a user without live sessions is not an error.
func (h *BookingStatusHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingStatusEvent
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}
	if event.UserID == "" || event.BookingID == "" {
		return kafka.NewPermanentError("booking status event without user or booking id", nil)
	}

	t, ok := event.NotificationType()
	if !ok {
		return nil
	}

	for _, sess := range h.sessions.ForUser(event.UserID) {
		sessCtx := client.WithAccessToken(ctx, sess.AccessToken())
		wants, err := h.prefs.Wants(sessCtx, sess, model.ChannelWeb, t)
		if err != nil {
			h.log.Warn("Could not load notification settings",
				"session_id", sess.ID,
				"booking_id", event.BookingID,
				"error", err,
			)
			continue
		}
		if !wants {
			continue
		}
		sess.Inbox.Info(Message(event))
	}
	return nil
}

func Message(event model.BookingStatusEvent) string {
	if event.Message != "" {
		return event.Message
	}
	switch event.Status {
	case model.BookingApproved:
		return fmt.Sprintf("Booking %s has been confirmed.", event.BookingID)
	case model.BookingRejected:
		return fmt.Sprintf("Booking %s has been rejected.", event.BookingID)
	}
	return fmt.Sprintf("Booking %s was updated.", event.BookingID)
}
