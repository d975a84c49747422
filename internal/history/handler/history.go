package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/julienschmidt/httprouter"

	historyerrors "hotelbox/internal/history/errors"
	"hotelbox/internal/history/service"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/sanitizer"
)

const (
	defaultHistoryLimit = 10
	receiptField        = "receipt"
	receiptMemory       = 1 << 20
)

type HistoryHandler struct {
	service service.HistoryService
	log     *logger.Logger
}

func NewHistoryHandler(service service.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		log:     log,
	}
}

func (h *HistoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/history", h.List)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/receipt", h.UploadReceipt)
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := parseHistoryQuery(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	page, err := h.service.List(r.Context(), query)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	pagination := model.Pagination{Page: query.Page, Limit: query.Limit, TotalData: len(page.Bookings), TotalPage: 1}
	if page.Pagination != nil {
		pagination = *page.Pagination
	}
	if err := httputil.WritePaginated(w, page.Bookings, pagination); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

// parseHistoryQuery accepts repeated or comma separated status filters and
// rejects values outside the known enums.
func parseHistoryQuery(r *http.Request) (model.HistoryQuery, error) {
	page, limit, err := httputil.ExtractPage(r, defaultHistoryLimit)
	if err != nil {
		return model.HistoryQuery{}, err
	}
	q := model.HistoryQuery{
		Page:   page,
		Limit:  limit,
		Search: sanitizer.TrimAndNormalize(r.URL.Query().Get("search")),
	}

	for _, raw := range sanitizer.NormalizeStatuses(httputil.QueryList(r, "booking_status")) {
		st, err := model.ParseBookingStatus(raw)
		if err != nil {
			return model.HistoryQuery{}, apperrors.InvalidInput(err.Error())
		}
		q.BookingStatus = append(q.BookingStatus, st)
	}
	for _, raw := range sanitizer.NormalizeStatuses(httputil.QueryList(r, "payment_status")) {
		st, err := model.ParsePaymentStatus(raw)
		if err != nil {
			return model.HistoryQuery{}, apperrors.InvalidInput(err.Error())
		}
		q.PaymentStatus = append(q.PaymentStatus, st)
	}
	return q, nil
}

func (h *HistoryHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	res, err := h.service.Cancel(r.Context(), bookingID)
	if writeErr := httputil.WriteResult(w, res, map[string]string{"booking_id": bookingID}, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "Cancel", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *HistoryHandler) UploadReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(receiptMemory); err != nil {
		h.writeError(w, "UploadReceipt", apperrors.InvalidInput("invalid multipart form: "+err.Error()))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(receiptField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = apperrors.Wrap(historyerrors.ErrReceiptRequired, apperrors.CodeInvalidInput, "Receipt file is required", http.StatusBadRequest)
		}
		h.writeError(w, "UploadReceipt", err)
		return
	}
	defer file.Close()

	// The declared part type is not trusted, the content is sniffed instead.
	mime, err := mimetype.DetectReader(file)
	if err != nil {
		h.writeError(w, "UploadReceipt", apperrors.InvalidInput("unreadable receipt file"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.writeError(w, "UploadReceipt", apperrors.Internal("failed to rewind receipt", err))
		return
	}

	receipt := client.Receipt{
		BookingID:    sanitizer.TrimAndNormalize(r.FormValue("booking_id")),
		SubBookingID: sanitizer.TrimAndNormalize(r.FormValue("sub_booking_id")),
		FileName:     header.Filename,
		ContentType:  mime.String(),
		File:         file,
	}

	res, err := h.service.UploadReceipt(r.Context(), receipt)
	if writeErr := httputil.WriteResult(w, res, map[string]string{"booking_id": receipt.BookingID}, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "UploadReceipt", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *HistoryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
