package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotelbox/pkg/client"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
)

type fakeSessions map[string][]*session.Session

func (f fakeSessions) ForUser(userID string) []*session.Session {
	return f[userID]
}

type fakePreferences struct {
	wantsFunc func(ctx context.Context, sess *session.Session, channel model.Channel, t model.NotificationType) (bool, error)
}

func (f fakePreferences) Wants(ctx context.Context, sess *session.Session, channel model.Channel, t model.NotificationType) (bool, error) {
	return f.wantsFunc(ctx, sess, channel, t)
}

func newSession(id string) *session.Session {
	claims := &session.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	return session.New(id, claims, "token-"+id, time.Now().Add(time.Hour), 10, logger.Discard())
}

func eventMessage(t *testing.T, e model.BookingStatusEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey(e.UserID).WithValue(e).Build()
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		event      model.BookingStatusEvent
		wants      bool
		wantToasts int
		wantType   model.NotificationType
	}{
		{
			name:       "approved and enabled",
			event:      model.BookingStatusEvent{BookingID: "B-1", UserID: "user-1", Status: model.BookingApproved},
			wants:      true,
			wantToasts: 1,
			wantType:   model.NotificationBooking,
		},
		{
			name:       "rejected but disabled",
			event:      model.BookingStatusEvent{BookingID: "B-1", UserID: "user-1", Status: model.BookingRejected},
			wants:      false,
			wantToasts: 0,
			wantType:   model.NotificationReject,
		},
		{
			name:       "waiting is ignored",
			event:      model.BookingStatusEvent{BookingID: "B-1", UserID: "user-1", Status: model.BookingWaiting},
			wants:      true,
			wantToasts: 0,
		},
		{
			name:       "other user",
			event:      model.BookingStatusEvent{BookingID: "B-1", UserID: "user-2", Status: model.BookingApproved},
			wants:      true,
			wantToasts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession("s1")
			var gotType model.NotificationType
			var gotToken string
			prefs := fakePreferences{wantsFunc: func(ctx context.Context, _ *session.Session, channel model.Channel, nt model.NotificationType) (bool, error) {
				if channel != model.ChannelWeb {
					t.Errorf("channel = %s", channel)
				}
				gotType = nt
				gotToken = client.AccessToken(ctx)
				return tt.wants, nil
			}}
			h := NewBookingStatusHandler(fakeSessions{"user-1": {sess}}, prefs, logger.Discard())

			if err := h.Handle(context.Background(), eventMessage(t, tt.event)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := sess.Inbox.Len(); got != tt.wantToasts {
				t.Errorf("toasts = %d, want %d", got, tt.wantToasts)
			}
			if tt.wantType != "" {
				if gotType != tt.wantType {
					t.Errorf("type = %s, want %s", gotType, tt.wantType)
				}
				if gotToken != "token-s1" {
					t.Errorf("access token = %q", gotToken)
				}
			}
		})
	}
}

func TestHandle_PreferenceErrorSkipsSession(t *testing.T) {
	s1, s2 := newSession("s1"), newSession("s2")
	prefs := fakePreferences{wantsFunc: func(_ context.Context, sess *session.Session, _ model.Channel, _ model.NotificationType) (bool, error) {
		if sess.ID == "s1" {
			return false, errors.New("upstream down")
		}
		return true, nil
	}}
	h := NewBookingStatusHandler(fakeSessions{"user-1": {s1, s2}}, prefs, logger.Discard())

	event := model.BookingStatusEvent{BookingID: "B-7", UserID: "user-1", Status: model.BookingApproved}
	if err := h.Handle(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if s1.Inbox.Len() != 0 || s2.Inbox.Len() != 1 {
		t.Errorf("toasts s1=%d s2=%d", s1.Inbox.Len(), s2.Inbox.Len())
	}
	if msg := s2.Inbox.Drain()[0].Message; msg != "Booking B-7 has been confirmed." {
		t.Errorf("message = %q", msg)
	}
}

func TestHandle_BadPayloadIsPermanent(t *testing.T) {
	h := NewBookingStatusHandler(fakeSessions{}, fakePreferences{}, logger.Discard())

	err := h.Handle(context.Background(), kafka.Message{Value: []byte("{"), Headers: map[string]string{}})
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("Handle() error = %v, want permanent", err)
	}
}
