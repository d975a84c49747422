package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotelbox/pkg/action"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
)

type fakeSender struct {
	mu      sync.Mutex
	updates []Update
	sendFn  func(ctx context.Context, u Update) (action.Result, error)
}

func (f *fakeSender) send(ctx context.Context, u Update) (action.Result, error) {
	f.mu.Lock()
	f.updates = append(f.updates, u)
	fn := f.sendFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, u)
	}
	return action.Ok(""), nil
}

func (f *fakeSender) last(t *testing.T) Update {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		t.Fatal("no update was sent")
	}
	return f.updates[len(f.updates)-1]
}

func allEnabled(ch model.Channel) []model.NotificationSetting {
	return []model.NotificationSetting{{Channel: ch, Type: model.NotificationAll, IsEnable: true}}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name     string
		settings []model.NotificationSetting
		want     model.ChannelState
	}{
		{
			name: "no settings",
			want: model.ChannelState{},
		},
		{
			name:     "all enabled switches both options on",
			settings: allEnabled(model.ChannelEmail),
			want:     model.ChannelState{Enabled: true, Booking: true, Reject: true, AllChecked: true},
		},
		{
			name: "single booking option",
			settings: []model.NotificationSetting{
				{Channel: model.ChannelEmail, Type: model.NotificationBooking, IsEnable: true},
				{Channel: model.ChannelEmail, Type: model.NotificationReject, IsEnable: false},
			},
			want: model.ChannelState{Enabled: true, Booking: true},
		},
		{
			name: "other channel is ignored",
			settings: []model.NotificationSetting{
				{Channel: model.ChannelWeb, Type: model.NotificationAll, IsEnable: true},
			},
			want: model.ChannelState{},
		},
		{
			name: "disabled all with enabled reject",
			settings: []model.NotificationSetting{
				{Channel: model.ChannelEmail, Type: model.NotificationAll, IsEnable: false},
				{Channel: model.ChannelEmail, Type: model.NotificationReject, IsEnable: true},
			},
			want: model.ChannelState{Enabled: true, Reject: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Initialize(tt.settings, model.ChannelEmail); got != tt.want {
				t.Errorf("Initialize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToggleOption_Transitions(t *testing.T) {
	both := model.ChannelState{Enabled: true, Booking: true, Reject: true, AllChecked: true}
	onlyBooking := model.ChannelState{Enabled: true, Booking: true}
	onlyReject := model.ChannelState{Enabled: true, Reject: true}
	none := model.ChannelState{}

	tests := []struct {
		name       string
		start      model.ChannelState
		option     model.NotificationType
		value      bool
		wantState  model.ChannelState
		wantUpdate Update
	}{
		{
			name:       "off while other on sends the other option",
			start:      both,
			option:     model.NotificationReject,
			value:      false,
			wantState:  onlyBooking,
			wantUpdate: Update{model.ChannelEmail, model.NotificationBooking, true},
		},
		{
			name:       "off while other off disables all",
			start:      onlyBooking,
			option:     model.NotificationBooking,
			value:      false,
			wantState:  none,
			wantUpdate: Update{model.ChannelEmail, model.NotificationAll, false},
		},
		{
			name:       "on while other on enables all",
			start:      onlyReject,
			option:     model.NotificationBooking,
			value:      true,
			wantState:  both,
			wantUpdate: Update{model.ChannelEmail, model.NotificationAll, true},
		},
		{
			name:       "on while other off enables the single option",
			start:      none,
			option:     model.NotificationReject,
			value:      true,
			wantState:  onlyReject,
			wantUpdate: Update{model.ChannelEmail, model.NotificationReject, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, upd := ToggleOption(tt.start, model.ChannelEmail, tt.option, tt.value)
			if st != tt.wantState {
				t.Errorf("state = %+v, want %+v", st, tt.wantState)
			}
			if upd != tt.wantUpdate {
				t.Errorf("update = %+v, want %+v", upd, tt.wantUpdate)
			}
		})
	}
}

func TestToggleOption_RoundTripReturnsToAll(t *testing.T) {
	start := Initialize(allEnabled(model.ChannelWeb), model.ChannelWeb)

	mid, _ := ToggleOption(start, model.ChannelWeb, model.NotificationBooking, false)
	end, upd := ToggleOption(mid, model.ChannelWeb, model.NotificationBooking, true)

	if end != start {
		t.Errorf("round trip ended in %+v, want %+v", end, start)
	}
	if upd != (Update{model.ChannelWeb, model.NotificationAll, true}) {
		t.Errorf("round trip should send enable all, got %+v", upd)
	}
}

func TestToggleChannelAndAll(t *testing.T) {
	st, upd := ToggleChannel(model.ChannelState{}, model.ChannelEmail, true)
	if st != (model.ChannelState{Enabled: true, Booking: true, Reject: true, AllChecked: true}) {
		t.Errorf("channel on = %+v", st)
	}
	if upd != (Update{model.ChannelEmail, model.NotificationAll, true}) {
		t.Errorf("channel on update = %+v", upd)
	}

	st, upd = ToggleChannel(st, model.ChannelEmail, false)
	if st != (model.ChannelState{}) || upd.Enabled || upd.Type != model.NotificationAll {
		t.Errorf("channel off = %+v %+v", st, upd)
	}

	st, upd = ToggleAll(model.ChannelState{Enabled: true, Booking: true}, model.ChannelEmail, true)
	if !st.AllChecked || !st.Enabled || upd != (Update{model.ChannelEmail, model.NotificationAll, true}) {
		t.Errorf("all on = %+v %+v", st, upd)
	}
}

func newReconciler(sender *fakeSender, rollback bool) (*Reconciler, *action.Inbox) {
	inbox := action.NewInbox(10)
	bridge := action.NewBridge(inbox, logger.Discard())
	settings := allEnabled(model.ChannelEmail)
	return New(settings, bridge, sender.send, Options{RollbackOnFailure: rollback}, logger.Discard()), inbox
}

func TestReconciler_SendsUpdateAndKeepsOptimisticState(t *testing.T) {
	sender := &fakeSender{}
	r, inbox := newReconciler(sender, false)

	st, res, err := r.SetOption(context.Background(), model.ChannelEmail, model.NotificationReject, false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Message != MsgUpdated {
		t.Errorf("result = %+v", res)
	}
	if st != (model.ChannelState{Enabled: true, Booking: true}) {
		t.Errorf("state = %+v", st)
	}
	if got := sender.last(t); got != (Update{model.ChannelEmail, model.NotificationBooking, true}) {
		t.Errorf("sent %+v", got)
	}

	toasts := inbox.Drain()
	if len(toasts) != 1 || toasts[0].Level != action.LevelSuccess {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestReconciler_FailureWithoutRollback(t *testing.T) {
	sender := &fakeSender{sendFn: func(ctx context.Context, u Update) (action.Result, error) {
		return action.Fail(""), nil
	}}
	r, inbox := newReconciler(sender, false)

	st, res, _ := r.SetAll(context.Background(), model.ChannelEmail, false)
	if res.Success || res.Message != MsgUpdateFailed {
		t.Errorf("result = %+v", res)
	}
	if st != (model.ChannelState{}) {
		t.Errorf("optimistic state should stay, got %+v", st)
	}

	toasts := inbox.Drain()
	if len(toasts) != 1 || toasts[0].Level != action.LevelError || toasts[0].Message != MsgUpdateFailed {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestReconciler_FailureWithRollback(t *testing.T) {
	sender := &fakeSender{sendFn: func(ctx context.Context, u Update) (action.Result, error) {
		return action.Result{}, errors.New("connection reset")
	}}
	r, _ := newReconciler(sender, true)
	before := r.State(model.ChannelEmail)

	st, res, _ := r.SetChannel(context.Background(), model.ChannelEmail, false)
	if res.Success || res.Message != MsgUpdateErrored {
		t.Errorf("result = %+v", res)
	}
	if st != before {
		t.Errorf("state should be rolled back to %+v, got %+v", before, st)
	}
}

func TestReconciler_PendingLeavesStateUntouched(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	sender := &fakeSender{sendFn: func(ctx context.Context, u Update) (action.Result, error) {
		once.Do(func() { close(started) })
		<-release
		return action.Ok("ok"), nil
	}}
	r, _ := newReconciler(sender, false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = r.SetOption(context.Background(), model.ChannelEmail, model.NotificationBooking, false)
	}()
	<-started

	afterFirst := r.State(model.ChannelEmail)
	st, _, err := r.SetAll(context.Background(), model.ChannelEmail, false)
	if !errors.Is(err, action.ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}
	if st != afterFirst {
		t.Errorf("pending toggle changed state: %+v", st)
	}

	if r.bridge.Pending(ActionKey(model.ChannelWeb)) {
		t.Error("web channel has its own key and should not be pending")
	}

	close(release)
	<-done
}

func TestReconciler_Wants(t *testing.T) {
	r, _ := newReconciler(&fakeSender{}, false)

	if !r.Wants(model.ChannelEmail, model.NotificationBooking) {
		t.Error("email booking should be wanted")
	}
	if r.Wants(model.ChannelWeb, model.NotificationReject) {
		t.Error("web reject should not be wanted")
	}

	view := r.Snapshot()
	if !view.Email.AllChecked || view.Web.Enabled {
		t.Errorf("snapshot = %+v", view)
	}
}
