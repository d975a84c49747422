package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotelbox/internal/notifications/reconciler"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

type mockNotificationsAPI struct {
	updateFunc func(ctx context.Context, setting model.NotificationSetting) (string, error)
}

func (m *mockNotificationsAPI) List(context.Context, int, int) ([]model.Notification, *model.Pagination, error) {
	return []model.Notification{{ID: "n-1"}}, &model.Pagination{Page: 1, Limit: 10, TotalData: 1, TotalPage: 1}, nil
}

func (m *mockNotificationsAPI) UpdateSetting(ctx context.Context, setting model.NotificationSetting) (string, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, setting)
	}
	return "", nil
}

type mockProfileAPI struct {
	calls    atomic.Int32
	settings []model.NotificationSetting
}

func (m *mockProfileAPI) Profile(context.Context) (*model.AccountProfile, error) {
	m.calls.Add(1)
	return &model.AccountProfile{ID: "user-1", NotificationSettings: m.settings}, nil
}

func newTestSession() (context.Context, *session.Session) {
	claims := &session.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	s := session.New("sess-1", claims, "token", time.Now().Add(time.Hour), 10, logger.Discard())
	return session.WithSession(context.Background(), s), s
}

func TestSettings_LoadedOncePerSession(t *testing.T) {
	ctx, _ := newTestSession()
	profiles := &mockProfileAPI{settings: []model.NotificationSetting{
		{Channel: model.ChannelEmail, Type: model.NotificationAll, IsEnable: true},
		{Channel: model.ChannelWeb, Type: model.NotificationReject, IsEnable: true},
	}}
	svc := NewNotificationService(&mockNotificationsAPI{}, profiles, validation.New("ID"), reconciler.Options{}, logger.Discard())

	view, err := svc.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if !view.Email.AllChecked || !view.Email.Enabled {
		t.Errorf("email = %+v", view.Email)
	}
	if view.Web.Booking || !view.Web.Reject || !view.Web.Enabled || view.Web.AllChecked {
		t.Errorf("web = %+v", view.Web)
	}

	if _, err := svc.Settings(ctx); err != nil {
		t.Fatal(err)
	}
	if n := profiles.calls.Load(); n != 1 {
		t.Errorf("profile fetched %d times, want 1", n)
	}
}

func TestSetOption_SendsDerivedUpdate(t *testing.T) {
	ctx, sess := newTestSession()
	var sent model.NotificationSetting
	api := &mockNotificationsAPI{updateFunc: func(_ context.Context, s model.NotificationSetting) (string, error) {
		sent = s
		return "", nil
	}}
	profiles := &mockProfileAPI{settings: []model.NotificationSetting{
		{Channel: model.ChannelWeb, Type: model.NotificationReject, IsEnable: true},
	}}
	svc := NewNotificationService(api, profiles, validation.New("ID"), reconciler.Options{}, logger.Discard())

	state, res, err := svc.SetOption(ctx, model.ChannelWeb, model.NotificationBooking, true)
	if err != nil {
		t.Fatalf("SetOption() error = %v", err)
	}
	if !res.Success || res.Message != reconciler.MsgUpdated {
		t.Errorf("Result = %+v", res)
	}
	want := model.NotificationSetting{Channel: model.ChannelWeb, Type: model.NotificationAll, IsEnable: true}
	if sent != want {
		t.Errorf("sent = %+v, want %+v", sent, want)
	}
	if !state.AllChecked {
		t.Errorf("state = %+v", state)
	}
	if toasts := sess.Inbox.Drain(); len(toasts) != 1 || toasts[0].Message != reconciler.MsgUpdated {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestSetChannel_FailureKeepsOptimisticState(t *testing.T) {
	ctx, _ := newTestSession()
	api := &mockNotificationsAPI{updateFunc: func(context.Context, model.NotificationSetting) (string, error) {
		return "", apperrors.Upstream(500, "")
	}}
	svc := NewNotificationService(api, &mockProfileAPI{}, validation.New("ID"), reconciler.Options{}, logger.Discard())

	state, res, err := svc.SetChannel(ctx, model.ChannelEmail, true)
	if err != nil {
		t.Fatalf("SetChannel() error = %v", err)
	}
	if res.Success {
		t.Errorf("Result = %+v, want failure", res)
	}
	if !state.Enabled || !state.AllChecked {
		t.Errorf("state = %+v, want optimistic state kept", state)
	}
}

func TestSetChannel_RollbackWhenConfigured(t *testing.T) {
	ctx, _ := newTestSession()
	api := &mockNotificationsAPI{updateFunc: func(context.Context, model.NotificationSetting) (string, error) {
		return "", apperrors.Upstream(400, "Invalid setting")
	}}
	svc := NewNotificationService(api, &mockProfileAPI{}, validation.New("ID"), reconciler.Options{RollbackOnFailure: true}, logger.Discard())

	state, res, err := svc.SetChannel(ctx, model.ChannelEmail, true)
	if err != nil {
		t.Fatalf("SetChannel() error = %v", err)
	}
	if res.Success || res.Message != "Invalid setting" {
		t.Errorf("Result = %+v", res)
	}
	if state.Enabled {
		t.Errorf("state = %+v, want rolled back", state)
	}
}

func TestWants(t *testing.T) {
	_, sess := newTestSession()
	profiles := &mockProfileAPI{settings: []model.NotificationSetting{
		{Channel: model.ChannelWeb, Type: model.NotificationBooking, IsEnable: true},
	}}
	svc := NewNotificationService(&mockNotificationsAPI{}, profiles, validation.New("ID"), reconciler.Options{}, logger.Discard())

	if ok, err := svc.Wants(context.Background(), sess, model.ChannelWeb, model.NotificationBooking); err != nil || !ok {
		t.Errorf("Wants(booking) = %v, %v", ok, err)
	}
	if ok, _ := svc.Wants(context.Background(), sess, model.ChannelWeb, model.NotificationReject); ok {
		t.Error("Wants(reject) = true, want false")
	}
}

func TestToasts_RequiresSession(t *testing.T) {
	svc := NewNotificationService(&mockNotificationsAPI{}, &mockProfileAPI{}, validation.New("ID"), reconciler.Options{}, logger.Discard())
	if _, err := svc.Toasts(context.Background()); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("Toasts() error = %v", err)
	}
}
