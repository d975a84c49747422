package service

import (
	"context"

	"hotelbox/internal/notifications/reconciler"
	"hotelbox/pkg/action"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

const sessionStateKey = "notifications"

type NotificationsAPI interface {
	List(ctx context.Context, page, limit int) ([]model.Notification, *model.Pagination, error)
	UpdateSetting(ctx context.Context, setting model.NotificationSetting) (string, error)
}

type ProfileAPI interface {
	Profile(ctx context.Context) (*model.AccountProfile, error)
}

type NotificationService interface {
	List(ctx context.Context, page, limit int) ([]model.Notification, *model.Pagination, error)
	Settings(ctx context.Context) (model.NotificationSettingsView, error)
	SetChannel(ctx context.Context, channel model.Channel, enabled bool) (model.ChannelState, action.Result, error)
	SetAll(ctx context.Context, channel model.Channel, checked bool) (model.ChannelState, action.Result, error)
	SetOption(ctx context.Context, channel model.Channel, option model.NotificationType, enabled bool) (model.ChannelState, action.Result, error)
	Toasts(ctx context.Context) ([]action.Toast, error)

	// Wants reports whether the session's user accepts notifications of
	// type t on channel, loading the settings when the session has none yet.
	Wants(ctx context.Context, sess *session.Session, channel model.Channel, t model.NotificationType) (bool, error)
}

type notificationService struct {
	api       NotificationsAPI
	profiles  ProfileAPI
	validator *validation.Validator
	opts      reconciler.Options
	log       *logger.Logger
}

func NewNotificationService(api NotificationsAPI, profiles ProfileAPI, v *validation.Validator, opts reconciler.Options, log *logger.Logger) NotificationService {
	return &notificationService{
		api:       api,
		profiles:  profiles,
		validator: v,
		opts:      opts,
		log:       log,
	}
}

func (s *notificationService) List(ctx context.Context, page, limit int) ([]model.Notification, *model.Pagination, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, nil, err
	}
	return s.api.List(ctx, page, limit)
}

// reconcilerFor returns the session's reconciler, seeding it from the
// account profile on first use.
func (s *notificationService) reconcilerFor(ctx context.Context, sess *session.Session) (*reconciler.Reconciler, error) {
	if v, ok := sess.Peek(sessionStateKey); ok {
		if rec, ok := v.(*reconciler.Reconciler); ok {
			return rec, nil
		}
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}

	v := sess.Value(sessionStateKey, func() any {
		return reconciler.New(profile.NotificationSettings, sess.Bridge, s.send, s.opts, s.log.With("session_id", sess.ID))
	})
	rec, ok := v.(*reconciler.Reconciler)
	if !ok {
		return nil, apperrors.Unauthorized("Session expired")
	}
	return rec, nil
}

func (s *notificationService) send(ctx context.Context, u reconciler.Update) (action.Result, error) {
	setting := u.Setting()
	if err := s.validator.Struct(setting); err != nil {
		return action.Result{}, err
	}
	msg, err := s.api.UpdateSetting(ctx, setting)
	if err != nil {
		return action.Result{}, err
	}
	return action.Ok(msg), nil
}

func (s *notificationService) current(ctx context.Context) (*reconciler.Reconciler, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.reconcilerFor(ctx, sess)
}

func (s *notificationService) Settings(ctx context.Context) (model.NotificationSettingsView, error) {
	rec, err := s.current(ctx)
	if err != nil {
		return model.NotificationSettingsView{}, err
	}
	return rec.Snapshot(), nil
}

func (s *notificationService) SetChannel(ctx context.Context, channel model.Channel, enabled bool) (model.ChannelState, action.Result, error) {
	rec, err := s.current(ctx)
	if err != nil {
		return model.ChannelState{}, action.Result{}, err
	}
	return rec.SetChannel(ctx, channel, enabled)
}

func (s *notificationService) SetAll(ctx context.Context, channel model.Channel, checked bool) (model.ChannelState, action.Result, error) {
	rec, err := s.current(ctx)
	if err != nil {
		return model.ChannelState{}, action.Result{}, err
	}
	return rec.SetAll(ctx, channel, checked)
}

func (s *notificationService) SetOption(ctx context.Context, channel model.Channel, option model.NotificationType, enabled bool) (model.ChannelState, action.Result, error) {
	rec, err := s.current(ctx)
	if err != nil {
		return model.ChannelState{}, action.Result{}, err
	}
	return rec.SetOption(ctx, channel, option, enabled)
}

func (s *notificationService) Toasts(ctx context.Context) ([]action.Toast, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	return sess.Inbox.Drain(), nil
}

func (s *notificationService) Wants(ctx context.Context, sess *session.Session, channel model.Channel, t model.NotificationType) (bool, error) {
	rec, err := s.reconcilerFor(ctx, sess)
	if err != nil {
		return false, err
	}
	return rec.Wants(channel, t), nil
}
