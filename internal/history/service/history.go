package service

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf16"

	historyerrors "hotelbox/internal/history/errors"
	"hotelbox/pkg/action"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
)

const (
	MsgCancelFailed   = "Failed to cancel booking. Please try again."
	MsgCancelErrored  = "An unexpected error occurred while cancelling the booking."
	MsgReceiptSent    = "Receipt uploaded successfully"
	MsgReceiptFailed  = "Failed to upload receipt. Please try again."
	actionCancel      = "history:cancel:"
	actionReceipt     = "history:receipt:"
	maxInvoicesPerRow = 3
)

var receiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type BookingsAPI interface {
	History(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error)
	Cancel(ctx context.Context, id string) (string, error)
	UploadReceipt(ctx context.Context, receipt client.Receipt) (string, error)
}

type HistoryService interface {
	List(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error)
	Cancel(ctx context.Context, bookingID string) (action.Result, error)
	UploadReceipt(ctx context.Context, receipt client.Receipt) (action.Result, error)
}

type historyService struct {
	bookings BookingsAPI
	events   *kafka.Emitter
	log      *logger.Logger
}

func NewHistoryService(bookings BookingsAPI, events *kafka.Emitter, log *logger.Logger) HistoryService {
	return &historyService{
		bookings: bookings,
		events:   events,
		log:      log,
	}
}

// CancelledMessage is the confirmation shown after a successful cancel.
func CancelledMessage(bookingID string) string {
	return fmt.Sprintf("Booking %s has been successfully cancelled.", bookingID)
}

// InvoiceCount derives a stable 1..3 invoice count from the booking id. The
// hash runs over UTF-16 code units with 32-bit wraparound so the count
// matches what agents saw in the previous portal.
func InvoiceCount(bookingID string) int {
	var hash int32
	for _, c := range utf16.Encode([]rune(bookingID)) {
		hash = (hash << 5) - hash + int32(c)
	}
	n := int(hash % maxInvoicesPerRow)
	if n < 0 {
		n = -n
	}
	return n + 1
}

// Normalize turns a backend record into a portal row. Unknown statuses are
// rejected instead of falling back to a default label.
func Normalize(rec model.HistoryRecord, number int) (model.HistoryBooking, error) {
	bookingStatus, err := model.ParseBookingStatus(rec.BookingStatus)
	if err != nil {
		return model.HistoryBooking{}, fmt.Errorf("booking %s: %w: %w", rec.BookingID, historyerrors.ErrUnknownStatus, err)
	}
	paymentStatus, err := model.ParsePaymentStatus(rec.PaymentStatus)
	if err != nil {
		return model.HistoryBooking{}, fmt.Errorf("booking %s: %w: %w", rec.BookingID, historyerrors.ErrUnknownStatus, err)
	}

	return model.HistoryBooking{
		Number:           number,
		BookingID:        rec.BookingID,
		GuestName:        rec.GuestName,
		AgentName:        rec.AgentName,
		BookingStatus:    bookingStatus,
		BookingLabel:     bookingStatus.Label(),
		PaymentStatus:    paymentStatus,
		PaymentLabel:     paymentStatus.Label(),
		InvoiceCount:     InvoiceCount(rec.BookingID),
		CanViewReceipt:   paymentStatus == model.PaymentPaid,
		CanUploadReceipt: paymentStatus == model.PaymentUnpaid,
		Detail:           rec.Detail,
		Receipt:          rec.Receipt,
	}, nil
}

func (s *historyService) List(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	records, pagination, err := s.bookings.History(ctx, q)
	if err != nil {
		return nil, err
	}

	offset := 0
	if q.Page > 1 {
		offset = (q.Page - 1) * q.Limit
	}

	bookings := make([]model.HistoryBooking, 0, len(records))
	for i, rec := range records {
		b, err := Normalize(rec, offset+i+1)
		if err != nil {
			s.log.Error("Booking history contains unknown status",
				"booking_id", rec.BookingID,
				"booking_status", rec.BookingStatus,
				"payment_status", rec.PaymentStatus,
			)
			return nil, apperrors.Wrap(err, apperrors.CodeUpstream, "Booking history contains an unknown status", http.StatusBadGateway)
		}
		bookings = append(bookings, b)
	}

	return &model.HistoryPage{Bookings: bookings, Pagination: pagination}, nil
}

func (s *historyService) Cancel(ctx context.Context, bookingID string) (action.Result, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return action.Result{}, err
	}
	if bookingID == "" {
		return action.Result{}, apperrors.Wrap(historyerrors.ErrBookingIDRequired, apperrors.CodeInvalidInput, "Booking id is required", http.StatusBadRequest)
	}

	cancel := func(ctx context.Context) (action.Result, error) {
		if _, err := s.bookings.Cancel(ctx, bookingID); err != nil {
			if apperrors.HasCode(err, apperrors.CodeUpstream) {
				return action.Fail(action.MessageFor(err, MsgCancelFailed)), nil
			}
			return action.Result{}, err
		}
		return action.Ok(CancelledMessage(bookingID)), nil
	}

	return sess.Bridge.RunCommit(ctx, actionCancel+bookingID, cancel, func(res action.Result) {
		if !res.Success {
			return
		}
		s.log.Info("Booking cancelled", "booking_id", bookingID, "user_id", sess.UserID)
		s.events.Emit(ctx, kafka.Event{
			Type: model.EventBookingCancelled,
			Key:  bookingID,
			Payload: model.BookingCancelledEvent{
				BookingID:   bookingID,
				UserID:      sess.UserID,
				CancelledAt: time.Now().UTC(),
			},
			CorrelationID: client.RequestID(ctx),
		})
	}, action.WithFallback(MsgCancelErrored))
}

func (s *historyService) UploadReceipt(ctx context.Context, receipt client.Receipt) (action.Result, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return action.Result{}, err
	}
	if receipt.BookingID == "" {
		return action.Result{}, apperrors.Wrap(historyerrors.ErrBookingIDRequired, apperrors.CodeInvalidInput, "Booking id is required", http.StatusBadRequest)
	}
	if receipt.File == nil {
		return action.Result{}, apperrors.Wrap(historyerrors.ErrReceiptRequired, apperrors.CodeInvalidInput, "Receipt file is required", http.StatusBadRequest)
	}
	if !receiptTypes[receipt.ContentType] {
		return action.Result{}, apperrors.Wrap(historyerrors.ErrReceiptType, apperrors.CodeInvalidInput,
			"Receipt must be a JPEG, PNG or PDF file", http.StatusUnsupportedMediaType)
	}

	return sess.Bridge.Run(ctx, actionReceipt+receipt.BookingID,
		action.Call(func(ctx context.Context) (string, error) {
			return s.bookings.UploadReceipt(ctx, receipt)
		}, MsgReceiptSent),
		action.WithFallback(MsgReceiptFailed),
	)
}
