package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/hotels/service"
	"hotelbox/pkg/client"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/sanitizer"
)

type HotelHandler struct {
	service service.HotelService
	log     *logger.Logger
}

func NewHotelHandler(service service.HotelService, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log,
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/hotels", h.Search)
}

func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPage(r, client.DefaultHotelLimit)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	query := r.URL.Query()
	params := model.HotelSearchParams{
		Search: sanitizer.TrimAndNormalize(query.Get("search")),
		Page:   page,
		Limit:  limit,
		From:   sanitizer.TrimAndNormalize(query.Get("from")),
		To:     sanitizer.TrimAndNormalize(query.Get("to")),
	}

	result, err := h.service.Search(r.Context(), params, sanitizer.TrimAndNormalize(query.Get("promo")))
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	pagination := model.Pagination{Page: page, Limit: limit, TotalData: len(result.Hotels), TotalPage: 1}
	if result.Pagination != nil {
		pagination = *result.Pagination
	}
	if err := httputil.WritePaginated(w, result.Hotels, pagination); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *HotelHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
