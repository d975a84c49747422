package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	historyerrors "hotelbox/internal/history/errors"
	"hotelbox/pkg/action"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
)

type mockBookingsAPI struct {
	historyFunc func(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error)
	cancelFunc  func(ctx context.Context, id string) (string, error)
	uploadFunc  func(ctx context.Context, receipt client.Receipt) (string, error)
}

func (m *mockBookingsAPI) History(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error) {
	return m.historyFunc(ctx, q)
}

func (m *mockBookingsAPI) Cancel(ctx context.Context, id string) (string, error) {
	return m.cancelFunc(ctx, id)
}

func (m *mockBookingsAPI) UploadReceipt(ctx context.Context, receipt client.Receipt) (string, error) {
	return m.uploadFunc(ctx, receipt)
}

type recordingPublisher struct {
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestContext() (context.Context, *session.Session) {
	claims := &session.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	s := session.New("sess-1", claims, "token", time.Now().Add(time.Hour), 10, logger.Discard())
	return session.WithSession(context.Background(), s), s
}

func TestInvoiceCount(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"", 1},
		{"A", 3},
		{"BK-001", 2},
		{"BK-002", 3},
		{"BK-003", 1},
		{"BOOK-2024-0001", 2},
		{"BK-00123456789", 3},
		{"hé😀", 3},
	}
	for _, tt := range tests {
		if got := InvoiceCount(tt.id); got != tt.want {
			t.Errorf("InvoiceCount(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		rec        model.HistoryRecord
		wantErr    bool
		wantLabels [2]string
		wantView   bool
		wantUpload bool
	}{
		{
			name:       "approved paid",
			rec:        model.HistoryRecord{BookingID: "BK-001", BookingStatus: "approved", PaymentStatus: "paid"},
			wantLabels: [2]string{"Confirmed", "Paid"},
			wantView:   true,
		},
		{
			name:       "waiting unpaid",
			rec:        model.HistoryRecord{BookingID: "BK-002", BookingStatus: "waiting", PaymentStatus: "unpaid"},
			wantLabels: [2]string{"Waiting Approval", "Unpaid"},
			wantUpload: true,
		},
		{
			name:    "unknown booking status",
			rec:     model.HistoryRecord{BookingID: "BK-003", BookingStatus: "cancelled", PaymentStatus: "paid"},
			wantErr: true,
		},
		{
			name:    "unknown payment status",
			rec:     model.HistoryRecord{BookingID: "BK-004", BookingStatus: "rejected", PaymentStatus: "refunded"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rec, 4)
			if tt.wantErr {
				if !errors.Is(err, historyerrors.ErrUnknownStatus) {
					t.Fatalf("Normalize() error = %v, want ErrUnknownStatus", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.BookingLabel != tt.wantLabels[0] || got.PaymentLabel != tt.wantLabels[1] {
				t.Errorf("labels = %q, %q", got.BookingLabel, got.PaymentLabel)
			}
			if got.CanViewReceipt != tt.wantView || got.CanUploadReceipt != tt.wantUpload {
				t.Errorf("receipt actions = view %v, upload %v", got.CanViewReceipt, got.CanUploadReceipt)
			}
			if got.Number != 4 || got.InvoiceCount != InvoiceCount(tt.rec.BookingID) {
				t.Errorf("row = %+v", got)
			}
		})
	}
}

func TestList_NumbersRowsAcrossPages(t *testing.T) {
	ctx, _ := newTestContext()
	api := &mockBookingsAPI{historyFunc: func(_ context.Context, q model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error) {
		return []model.HistoryRecord{
			{BookingID: "BK-011", BookingStatus: "approved", PaymentStatus: "paid"},
			{BookingID: "BK-012", BookingStatus: "rejected", PaymentStatus: "unpaid"},
		}, &model.Pagination{Page: q.Page, Limit: q.Limit, TotalData: 12, TotalPage: 2}, nil
	}}
	svc := NewHistoryService(api, nil, logger.Discard())

	page, err := svc.List(ctx, model.HistoryQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Bookings) != 2 || page.Bookings[0].Number != 11 || page.Bookings[1].Number != 12 {
		t.Errorf("bookings = %+v", page.Bookings)
	}
}

func TestList_UnknownStatusIsUpstreamError(t *testing.T) {
	ctx, _ := newTestContext()
	api := &mockBookingsAPI{historyFunc: func(context.Context, model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error) {
		return []model.HistoryRecord{{BookingID: "BK-1", BookingStatus: "lost", PaymentStatus: "paid"}}, nil, nil
	}}
	svc := NewHistoryService(api, nil, logger.Discard())

	_, err := svc.List(ctx, model.HistoryQuery{Page: 1, Limit: 10})
	if !apperrors.HasCode(err, apperrors.CodeUpstream) {
		t.Errorf("List() error = %v, want upstream error", err)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name        string
		cancelErr   error
		wantSuccess bool
		wantMessage string
		wantEvents  int
	}{
		{"success", nil, true, "Booking BK-9 has been successfully cancelled.", 1},
		{"upstream message is surfaced", apperrors.Upstream(409, "already cancelled"), false, "already cancelled", 0},
		{"upstream without message", apperrors.New(apperrors.CodeUpstream, "", 502), false, MsgCancelFailed, 0},
		{"network failure", errors.New("connection reset"), false, MsgCancelErrored, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, sess := newTestContext()
			pub := &recordingPublisher{}
			api := &mockBookingsAPI{cancelFunc: func(_ context.Context, id string) (string, error) {
				if id != "BK-9" {
					t.Errorf("Cancel(%q)", id)
				}
				return "ok", tt.cancelErr
			}}
			svc := NewHistoryService(api, kafka.NewEmitter(pub, model.EventSource, model.EventSchemaVersion, logger.Discard()), logger.Discard())

			res, err := svc.Cancel(ctx, "BK-9")
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if res.Success != tt.wantSuccess || res.Message != tt.wantMessage {
				t.Errorf("Result = %+v", res)
			}
			if len(pub.messages) != tt.wantEvents {
				t.Fatalf("events = %d, want %d", len(pub.messages), tt.wantEvents)
			}
			if tt.wantEvents > 0 && pub.messages[0].GetEventType() != model.EventBookingCancelled {
				t.Errorf("event type = %q", pub.messages[0].GetEventType())
			}

			toasts := sess.Inbox.Drain()
			if len(toasts) != 1 || toasts[0].Message != tt.wantMessage {
				t.Errorf("toasts = %+v", toasts)
			}
		})
	}
}

func TestCancel_PendingIsRejected(t *testing.T) {
	ctx, _ := newTestContext()
	started := make(chan struct{})
	release := make(chan struct{})
	api := &mockBookingsAPI{cancelFunc: func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "", nil
	}}
	svc := NewHistoryService(api, nil, logger.Discard())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Cancel(ctx, "BK-1")
	}()
	<-started

	if _, err := svc.Cancel(ctx, "BK-1"); !errors.Is(err, action.ErrPending) {
		t.Errorf("second Cancel() error = %v, want ErrPending", err)
	}
	close(release)
	<-done
}

func TestUploadReceipt(t *testing.T) {
	tests := []struct {
		name       string
		receipt    client.Receipt
		wantStatus int
		wantCalled bool
	}{
		{"pdf", client.Receipt{BookingID: "BK-1", ContentType: "application/pdf", File: strings.NewReader("%PDF")}, 0, true},
		{"missing booking", client.Receipt{ContentType: "image/png", File: strings.NewReader("x")}, 400, false},
		{"missing file", client.Receipt{BookingID: "BK-1", ContentType: "image/png"}, 400, false},
		{"text file", client.Receipt{BookingID: "BK-1", ContentType: "text/plain; charset=utf-8", File: strings.NewReader("x")}, 415, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext()
			called := false
			api := &mockBookingsAPI{uploadFunc: func(context.Context, client.Receipt) (string, error) {
				called = true
				return "", nil
			}}
			svc := NewHistoryService(api, nil, logger.Discard())

			res, err := svc.UploadReceipt(ctx, tt.receipt)
			if called != tt.wantCalled {
				t.Errorf("called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantStatus == 0 {
				if err != nil || !res.Success || res.Message != MsgReceiptSent {
					t.Errorf("UploadReceipt() = %+v, %v", res, err)
				}
				return
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.StatusCode() != tt.wantStatus {
				t.Errorf("UploadReceipt() error = %v, want status %d", err, tt.wantStatus)
			}
		})
	}
}

func TestRequiresSession(t *testing.T) {
	svc := NewHistoryService(&mockBookingsAPI{}, nil, logger.Discard())
	if _, err := svc.Cancel(context.Background(), "BK-1"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("Cancel() error = %v", err)
	}
}
