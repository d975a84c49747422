// Package reconciler keeps the notification channel toggles of one session
// and tells the backend about every change. The local state is updated
// before the backend answers.
package reconciler

import (
	"context"
	"errors"
	"sync"

	"hotelbox/pkg/action"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
)

const (
	MsgUpdated       = "Notification setting updated successfully"
	MsgUpdateFailed  = "Failed to update notification setting"
	MsgUpdateErrored = "An error occurred while updating notification setting"
	actionKeyPrefix  = "notification:"
)

// Update is the reconciliation call derived from one transition.
type Update struct {
	Channel model.Channel
	Type    model.NotificationType
	Enabled bool
}

func (u Update) Setting() model.NotificationSetting {
	return model.NotificationSetting{Channel: u.Channel, Type: u.Type, IsEnable: u.Enabled}
}

// Initialize builds a channel state from the backend snapshot. An enabled
// "all" setting switches both options on.
func Initialize(settings []model.NotificationSetting, channel model.Channel) model.ChannelState {
	var st model.ChannelState
	var all bool
	for _, s := range settings {
		if s.Channel != channel {
			continue
		}
		if s.IsEnable {
			st.Enabled = true
		}
		switch s.Type {
		case model.NotificationAll:
			all = all || s.IsEnable
		case model.NotificationBooking:
			st.Booking = st.Booking || s.IsEnable
		case model.NotificationReject:
			st.Reject = st.Reject || s.IsEnable
		}
	}
	st.Booking = st.Booking || all
	st.Reject = st.Reject || all
	st.AllChecked = st.Booking && st.Reject
	return Derive(st)
}

// Derive recomputes the aggregate flags from the two options.
func Derive(st model.ChannelState) model.ChannelState {
	st.AllChecked = st.Booking && st.Reject
	st.Enabled = st.Booking || st.Reject
	return st
}

func ToggleOption(st model.ChannelState, channel model.Channel, option model.NotificationType, value bool) (model.ChannelState, Update) {
	other := otherOption(st, option)
	switch option {
	case model.NotificationBooking:
		st.Booking = value
	case model.NotificationReject:
		st.Reject = value
	}
	st = Derive(st)

	switch {
	case !value && other:
		return st, Update{Channel: channel, Type: otherType(option), Enabled: true}
	case !value:
		return st, Update{Channel: channel, Type: model.NotificationAll, Enabled: false}
	case other:
		return st, Update{Channel: channel, Type: model.NotificationAll, Enabled: true}
	default:
		return st, Update{Channel: channel, Type: option, Enabled: true}
	}
}

func ToggleChannel(st model.ChannelState, channel model.Channel, on bool) (model.ChannelState, Update) {
	st.Booking = on
	st.Reject = on
	return Derive(st), Update{Channel: channel, Type: model.NotificationAll, Enabled: on}
}

func ToggleAll(st model.ChannelState, channel model.Channel, checked bool) (model.ChannelState, Update) {
	st.Booking = checked
	st.Reject = checked
	return Derive(st), Update{Channel: channel, Type: model.NotificationAll, Enabled: checked}
}

func otherOption(st model.ChannelState, option model.NotificationType) bool {
	if option == model.NotificationBooking {
		return st.Reject
	}
	return st.Booking
}

func otherType(option model.NotificationType) model.NotificationType {
	if option == model.NotificationBooking {
		return model.NotificationReject
	}
	return model.NotificationBooking
}

// SendFunc delivers an update to the backend.
type SendFunc func(ctx context.Context, u Update) (action.Result, error)

type Options struct {
	RollbackOnFailure bool
}

type Reconciler struct {
	mu     sync.Mutex
	states map[model.Channel]model.ChannelState
	bridge *action.Bridge
	send   SendFunc
	opts   Options
	log    *logger.Logger
}

func New(settings []model.NotificationSetting, bridge *action.Bridge, send SendFunc, opts Options, log *logger.Logger) *Reconciler {
	states := make(map[model.Channel]model.ChannelState, len(model.Channels))
	for _, ch := range model.Channels {
		states[ch] = Initialize(settings, ch)
	}
	return &Reconciler{
		states: states,
		bridge: bridge,
		send:   send,
		opts:   opts,
		log:    log,
	}
}

func ActionKey(channel model.Channel) string {
	return actionKeyPrefix + string(channel)
}

func (r *Reconciler) State(channel model.Channel) model.ChannelState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[channel]
}

func (r *Reconciler) Snapshot() model.NotificationSettingsView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.NotificationSettingsView{
		Email: r.states[model.ChannelEmail],
		Web:   r.states[model.ChannelWeb],
	}
}

// Wants reports whether web toasts of the given type should reach the user.
func (r *Reconciler) Wants(channel model.Channel, t model.NotificationType) bool {
	st := r.State(channel)
	switch t {
	case model.NotificationBooking:
		return st.Booking
	case model.NotificationReject:
		return st.Reject
	}
	return st.AllChecked
}

func (r *Reconciler) SetOption(ctx context.Context, channel model.Channel, option model.NotificationType, value bool) (model.ChannelState, action.Result, error) {
	return r.apply(ctx, channel, func(st model.ChannelState) (model.ChannelState, Update) {
		return ToggleOption(st, channel, option, value)
	})
}

func (r *Reconciler) SetChannel(ctx context.Context, channel model.Channel, on bool) (model.ChannelState, action.Result, error) {
	return r.apply(ctx, channel, func(st model.ChannelState) (model.ChannelState, Update) {
		return ToggleChannel(st, channel, on)
	})
}

func (r *Reconciler) SetAll(ctx context.Context, channel model.Channel, checked bool) (model.ChannelState, action.Result, error) {
	return r.apply(ctx, channel, func(st model.ChannelState) (model.ChannelState, Update) {
		return ToggleAll(st, channel, checked)
	})
}

func (r *Reconciler) apply(ctx context.Context, channel model.Channel, transition func(model.ChannelState) (model.ChannelState, Update)) (model.ChannelState, action.Result, error) {
	key := ActionKey(channel)

	r.mu.Lock()
	if r.bridge.Pending(key) {
		st := r.states[channel]
		r.mu.Unlock()
		return st, action.Fail(action.PendingMessage), action.ErrPending
	}
	prev := r.states[channel]
	next, upd := transition(prev)
	r.states[channel] = next
	r.mu.Unlock()

	r.log.Debug("notification toggle applied",
		"channel", channel,
		"type", upd.Type,
		"enabled", upd.Enabled,
	)

	res, err := r.bridge.RunCommit(ctx, key, func(ctx context.Context) (action.Result, error) {
		res, err := r.send(ctx, upd)
		if err != nil {
			return res, err
		}
		if res.Message == "" {
			res.Message = MsgUpdateFailed
			if res.Success {
				res.Message = MsgUpdated
			}
		}
		return res, nil
	}, func(res action.Result) {
		if !res.Success && r.opts.RollbackOnFailure {
			r.restore(channel, next, prev)
		}
	}, action.WithFallback(MsgUpdateErrored))

	if errors.Is(err, action.ErrPending) {
		r.restore(channel, next, prev)
	}
	return r.State(channel), res, err
}

// restore reverts to prev unless another toggle already replaced next.
func (r *Reconciler) restore(channel model.Channel, next, prev model.ChannelState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.states[channel] == next {
		r.states[channel] = prev
	}
}
