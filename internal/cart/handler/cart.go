package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/cart/service"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
)

type CartHandler struct {
	service service.CartService
	log     *logger.Logger
}

func NewCartHandler(service service.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

func (h *CartHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cart", h.View)
	router.POST("/api/v1/cart/checkout", h.Checkout)
	router.DELETE("/api/v1/cart/items/:id", h.RemoveItem)
	router.GET("/api/v1/cart/guests", h.Guests)
	router.POST("/api/v1/cart/guests", h.AddGuest)
	router.PUT("/api/v1/cart/guests", h.SaveGuests)
	router.PATCH("/api/v1/cart/guests/:id", h.RenameGuest)
	router.DELETE("/api/v1/cart/guests/:id", h.RemoveGuest)
	router.GET("/api/v1/cart/candidates", h.Candidates)
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.View(r.Context())
	if err != nil {
		h.writeError(w, "View", err)
		return
	}
	h.writeSuccess(w, "View", summary)
}

func (h *CartHandler) Guests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guests, err := h.service.Guests(r.Context())
	if err != nil {
		h.writeError(w, "Guests", err)
		return
	}
	h.writeSuccess(w, "Guests", guests)
}

func (h *CartHandler) AddGuest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AddGuestRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "AddGuest", err)
		return
	}

	res, guests, err := h.service.AddGuest(r.Context(), req)
	if writeErr := httputil.WriteResult(w, res, guests, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "AddGuest", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *CartHandler) RenameGuest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RenameGuestRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "RenameGuest", err)
		return
	}

	guests, err := h.service.RenameGuest(r.Context(), ps.ByName("id"), req)
	if err != nil {
		h.writeError(w, "RenameGuest", err)
		return
	}
	h.writeSuccess(w, "RenameGuest", guests)
}

func (h *CartHandler) RemoveGuest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guests, err := h.service.RemoveGuest(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "RemoveGuest", err)
		return
	}
	h.writeSuccess(w, "RemoveGuest", guests)
}

func (h *CartHandler) SaveGuests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, guests, err := h.service.SaveGuests(r.Context())
	if writeErr := httputil.WriteResult(w, res, guests, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "SaveGuests", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *CartHandler) Candidates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.Candidates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, "Candidates", err)
		return
	}
	h.writeSuccess(w, "Candidates", users)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.service.RemoveItem(r.Context(), ps.ByName("id"))
	if writeErr := httputil.WriteResult(w, res, nil, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "RemoveItem", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, err := h.service.Checkout(r.Context())
	if writeErr := httputil.WriteResult(w, res, nil, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", "Checkout", "operation", "WriteResult", "error", writeErr)
	}
}

func (h *CartHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CartHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}
