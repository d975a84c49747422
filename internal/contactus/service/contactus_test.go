package service

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"

	contacterrors "hotelbox/internal/contactus/errors"
	mongotx "hotelbox/pkg/db/mongo"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

type mockAccountAPI struct {
	profileCalls atomic.Int32
	optionCalls  atomic.Int32
	profileErr   error
}

func (m *mockAccountAPI) Profile(context.Context) (*model.AccountProfile, error) {
	m.profileCalls.Add(1)
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return &model.AccountProfile{ID: "user-1", Email: "agent@example.com"}, nil
}

func (m *mockAccountAPI) BookingOptions(context.Context) ([]model.BookingOption, error) {
	m.optionCalls.Add(1)
	return []model.BookingOption{
		{Value: "BK001", Label: "Hotel Bali Paradise", SubBookings: []model.SubBookingOption{{Value: "SUB001"}}},
	}, nil
}

type mockTicketRepository struct {
	createFunc func(ctx context.Context, ticket *model.SupportTicket) error
	count      int64
	created    []*model.SupportTicket
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, ticket); err != nil {
			return err
		}
	}
	m.created = append(m.created, ticket)
	return nil
}

func (m *mockTicketRepository) FindByID(context.Context, string) (*model.SupportTicket, error) {
	return nil, contacterrors.ErrNotFound
}

func (m *mockTicketRepository) CountByUserSince(context.Context, string, time.Time) (int64, error) {
	return m.count, nil
}

func (m *mockTicketRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type recordingPublisher struct {
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func newTestContext() context.Context {
	claims := &session.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	s := session.New("sess-1", claims, "token", time.Now().Add(time.Hour), 10, logger.Discard())
	return session.WithSession(context.Background(), s)
}

func validRequest() model.ContactUsRequest {
	return model.ContactUsRequest{
		Name:      "  Budi   Santoso ",
		Email:     " Budi@Example.COM ",
		Phone:     "0812-3456-7890",
		Subject:   "Room upgrade",
		Category:  "Booking",
		BookingID: "BK001",
		Message:   "Can the room be upgraded to a suite?",
	}
}

var ticketPattern = regexp.MustCompile(`^TICKET-1700000000000-[0-9A-Z]{9}$`)

func TestTicketID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := TicketID(now)
		if !ticketPattern.MatchString(id) {
			t.Fatalf("TicketID() = %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct ids out of 50", len(seen))
	}
}

func TestSubmit(t *testing.T) {
	repo := &mockTicketRepository{}
	pub := &recordingPublisher{}
	svc := NewContactUsService(&mockAccountAPI{}, repo, validation.New("ID"),
		kafka.NewEmitter(pub, model.EventSource, model.EventSchemaVersion, logger.Discard()),
		Config{MaxInquiries: 5, Window: time.Hour}, logger.Discard()).(*contactUsService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	receipt, err := svc.Submit(newTestContext(), validRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !ticketPattern.MatchString(receipt.TicketID) {
		t.Errorf("TicketID = %q", receipt.TicketID)
	}
	if receipt.Message != SubmittedMessage(receipt.TicketID) {
		t.Errorf("Message = %q", receipt.Message)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created = %d tickets", len(repo.created))
	}
	ticket := repo.created[0]
	if ticket.Name != "Budi Santoso" || ticket.Email != "budi@example.com" || ticket.Phone != "+6281234567890" {
		t.Errorf("ticket not normalized: %+v", ticket)
	}
	if ticket.Category != "booking" || ticket.UserID != "user-1" || ticket.Status != TicketStatusOpen {
		t.Errorf("ticket = %+v", ticket)
	}

	if len(pub.messages) != 1 || pub.messages[0].GetEventType() != model.EventSupportInquirySubmitted {
		t.Errorf("events = %+v", pub.messages)
	}
	if pub.messages[0].Key != receipt.TicketID {
		t.Errorf("event key = %q", pub.messages[0].Key)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.ContactUsRequest)
		count    int64
		createFn func(context.Context, *model.SupportTicket) error
		wantCode string
	}{
		{
			name:     "missing message",
			mutate:   func(r *model.ContactUsRequest) { r.Message = "   " },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "invalid phone",
			mutate:   func(r *model.ContactUsRequest) { r.Phone = "12" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "booking category without booking",
			mutate:   func(r *model.ContactUsRequest) { r.BookingID = "" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "foreign booking",
			mutate:   func(r *model.ContactUsRequest) { r.BookingID = "BK999" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "foreign sub booking",
			mutate:   func(r *model.ContactUsRequest) { r.SubBookingID = "SUB999" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "inquiry cap reached",
			count:    5,
			wantCode: apperrors.CodeRateLimited,
		},
		{
			name: "duplicate ticket",
			createFn: func(context.Context, *model.SupportTicket) error {
				return contacterrors.ErrDuplicateTicket
			},
			wantCode: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTicketRepository{count: tt.count, createFunc: tt.createFn}
			pub := &recordingPublisher{}
			svc := NewContactUsService(&mockAccountAPI{}, repo, validation.New("ID"),
				kafka.NewEmitter(pub, model.EventSource, model.EventSchemaVersion, logger.Discard()),
				Config{MaxInquiries: 5, Window: time.Hour}, logger.Discard())

			req := validRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			_, err := svc.Submit(newTestContext(), req)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("Submit() error = %v, want code %s", err, tt.wantCode)
			}
			if len(pub.messages) != 0 {
				t.Errorf("events published on failure: %d", len(pub.messages))
			}
		})
	}
}

func TestContext_FetchesInParallel(t *testing.T) {
	account := &mockAccountAPI{}
	svc := NewContactUsService(account, &mockTicketRepository{}, validation.New("ID"), nil, Config{}, logger.Discard())

	got, err := svc.Context(newTestContext())
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}
	if got.Account.ID != "user-1" || len(got.Bookings) != 1 {
		t.Errorf("Context() = %+v", got)
	}
	if account.profileCalls.Load() != 1 || account.optionCalls.Load() != 1 {
		t.Errorf("calls = %d profile, %d options", account.profileCalls.Load(), account.optionCalls.Load())
	}
}

func TestContext_PropagatesFailure(t *testing.T) {
	upstream := apperrors.Upstream(503, "")
	svc := NewContactUsService(&mockAccountAPI{profileErr: upstream}, &mockTicketRepository{}, validation.New("ID"), nil, Config{}, logger.Discard())

	if _, err := svc.Context(newTestContext()); !errors.Is(err, upstream) {
		t.Errorf("Context() error = %v", err)
	}
}
