package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	contacterrors "hotelbox/internal/contactus/errors"
	"hotelbox/internal/contactus/repository"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/sanitizer"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

const (
	TicketStatusOpen = "open"
	ticketSuffixLen  = 9
)

type AccountAPI interface {
	Profile(ctx context.Context) (*model.AccountProfile, error)
	BookingOptions(ctx context.Context) ([]model.BookingOption, error)
}

type ContactUsService interface {
	Context(ctx context.Context) (*model.ContactUsContext, error)
	Submit(ctx context.Context, req model.ContactUsRequest) (*model.ContactUsReceipt, error)
}

type Config struct {
	// MaxInquiries caps the tickets one agent opens per Window. Zero disables the cap.
	MaxInquiries int
	Window       time.Duration
}

type contactUsService struct {
	account   AccountAPI
	repo      repository.TicketRepository
	validator *validation.Validator
	events    *kafka.Emitter
	cfg       Config
	now       func() time.Time
	log       *logger.Logger
}

func NewContactUsService(account AccountAPI, repo repository.TicketRepository, v *validation.Validator, events *kafka.Emitter, cfg Config, log *logger.Logger) ContactUsService {
	return &contactUsService{
		account:   account,
		repo:      repo,
		validator: v,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
		log:       log,
	}
}

// TicketID returns TICKET-<unix millis>-<9 upper case base36 characters>.
func TicketID(now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
	if len(suffix) < ticketSuffixLen {
		suffix = strings.Repeat("0", ticketSuffixLen-len(suffix)) + suffix
	}
	return fmt.Sprintf("TICKET-%d-%s", now.UnixMilli(), suffix[len(suffix)-ticketSuffixLen:])
}

func SubmittedMessage(ticketID string) string {
	return fmt.Sprintf("Your inquiry has been submitted successfully. Ticket ID: %s. We'll get back to you within 24 hours.", ticketID)
}

func (s *contactUsService) Context(ctx context.Context) (*model.ContactUsContext, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	var (
		profile  *model.AccountProfile
		bookings []model.BookingOption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.account.Profile(gctx)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		b, err := s.account.BookingOptions(gctx)
		if err != nil {
			return err
		}
		bookings = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []model.BookingOption{}
	}
	return &model.ContactUsContext{Account: *profile, Bookings: bookings}, nil
}

func sanitize(req model.ContactUsRequest) model.ContactUsRequest {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.TrimAndNormalize(req.Phone)
	req.Subject = sanitizer.TrimAndNormalize(req.Subject)
	req.Category = sanitizer.Status.Apply(req.Category)
	req.BookingID = strings.TrimSpace(req.BookingID)
	req.SubBookingID = strings.TrimSpace(req.SubBookingID)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

// checkBooking verifies the referenced booking and sub booking are among
// the agent's own options.
func checkBooking(options []model.BookingOption, bookingID, subBookingID string) error {
	for _, b := range options {
		if b.Value != bookingID {
			continue
		}
		if subBookingID == "" {
			return nil
		}
		for _, sub := range b.SubBookings {
			if sub.Value == subBookingID {
				return nil
			}
		}
		return contacterrors.ErrUnknownSubBooking
	}
	return contacterrors.ErrUnknownBooking
}

func (s *contactUsService) Submit(ctx context.Context, req model.ContactUsRequest) (*model.ContactUsReceipt, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	req = sanitize(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.SubBookingID != "" && req.BookingID == "" {
		return nil, apperrors.Validation("Validation failed", map[string]any{
			"sub_booking_id": "requires booking_id",
		})
	}
	if req.Phone != "" {
		req.Phone = sanitizer.NormalizePhone(req.Phone, s.validator.Region())
	}

	if req.BookingID != "" {
		options, err := s.account.BookingOptions(ctx)
		if err != nil {
			return nil, err
		}
		if err := checkBooking(options, req.BookingID, req.SubBookingID); err != nil {
			field := "booking_id"
			if errors.Is(err, contacterrors.ErrUnknownSubBooking) {
				field = "sub_booking_id"
			}
			return nil, apperrors.Validation("Validation failed", map[string]any{field: err.Error()})
		}
	}

	now := s.now().UTC()
	ticket := &model.SupportTicket{
		ID:           TicketID(now),
		UserID:       sess.UserID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Subject:      req.Subject,
		Category:     req.Category,
		BookingID:    req.BookingID,
		SubBookingID: req.SubBookingID,
		Message:      req.Message,
		Status:       TicketStatusOpen,
		CreatedAt:    now,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if s.cfg.MaxInquiries > 0 {
			count, err := s.repo.CountByUserSince(sessCtx, sess.UserID, now.Add(-s.cfg.Window))
			if err != nil {
				return apperrors.Internal("Failed to submit inquiry", err)
			}
			if count >= int64(s.cfg.MaxInquiries) {
				return apperrors.TooManyRequests("Too many inquiries. Please try again later.")
			}
		}
		if err := s.repo.Create(sessCtx, ticket); err != nil {
			if errors.Is(err, contacterrors.ErrDuplicateTicket) {
				return apperrors.Wrap(err, apperrors.CodeConflict, "Inquiry already submitted", http.StatusConflict)
			}
			return apperrors.Internal("Failed to submit inquiry", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to submit inquiry", "user_id", sess.UserID, "error", err)
		return nil, err
	}

	s.log.Info("Support inquiry submitted",
		"ticket_id", ticket.ID,
		"user_id", ticket.UserID,
		"category", ticket.Category,
	)
	s.events.Emit(ctx, kafka.Event{
		Type: model.EventSupportInquirySubmitted,
		Key:  ticket.ID,
		Payload: model.InquirySubmittedEvent{
			TicketID:  ticket.ID,
			UserID:    ticket.UserID,
			Category:  ticket.Category,
			BookingID: ticket.BookingID,
			Subject:   ticket.Subject,
			CreatedAt: ticket.CreatedAt,
		},
		CorrelationID: client.RequestID(ctx),
	})

	return &model.ContactUsReceipt{TicketID: ticket.ID, Message: SubmittedMessage(ticket.ID)}, nil
}
