package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/notifications/service"
	"hotelbox/pkg/action"
	apperrors "hotelbox/pkg/errors"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
)

const defaultNotificationLimit = 10

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.GET("/api/v1/toasts", h.Toasts)
	router.GET("/api/v1/settings/notifications", h.Settings)
	router.PUT("/api/v1/settings/notifications/:channel", h.SetChannel)
	router.PUT("/api/v1/settings/notifications/:channel/all", h.SetAll)
	router.PUT("/api/v1/settings/notifications/:channel/options/:option", h.SetOption)
}

type toggleResponse struct {
	Channel model.Channel      `json:"channel"`
	State   model.ChannelState `json:"state"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPage(r, defaultNotificationLimit)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	notifications, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	if pagination == nil {
		pagination = &model.Pagination{Page: page, Limit: limit, TotalData: len(notifications), TotalPage: 1}
	}

	if err := httputil.WritePaginated(w, notifications, *pagination); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) Toasts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	toasts, err := h.service.Toasts(r.Context())
	if err != nil {
		h.writeError(w, "Toasts", err)
		return
	}
	if err := httputil.WriteSuccess(w, toasts); err != nil {
		h.log.Error("failed to write success response", "handler", "Toasts", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) Settings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := h.service.Settings(r.Context())
	if err != nil {
		h.writeError(w, "Settings", err)
		return
	}
	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Settings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) SetChannel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.toggle(w, r, ps, "SetChannel", func(channel model.Channel, enabled bool) (model.ChannelState, action.Result, error) {
		return h.service.SetChannel(r.Context(), channel, enabled)
	})
}

func (h *NotificationHandler) SetAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.toggle(w, r, ps, "SetAll", func(channel model.Channel, checked bool) (model.ChannelState, action.Result, error) {
		return h.service.SetAll(r.Context(), channel, checked)
	})
}

func (h *NotificationHandler) SetOption(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	option, err := model.ParseOption(ps.ByName("option"))
	if err != nil {
		h.writeError(w, "SetOption", apperrors.InvalidInput(err.Error()))
		return
	}
	h.toggle(w, r, ps, "SetOption", func(channel model.Channel, enabled bool) (model.ChannelState, action.Result, error) {
		return h.service.SetOption(r.Context(), channel, option, enabled)
	})
}

func (h *NotificationHandler) toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params, name string, fn func(model.Channel, bool) (model.ChannelState, action.Result, error)) {
	channel, err := model.ParseChannel(ps.ByName("channel"))
	if err != nil {
		h.writeError(w, name, apperrors.InvalidInput(err.Error()))
		return
	}

	var req model.ToggleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, name, err)
		return
	}
	if req.Enabled == nil {
		h.writeError(w, name, apperrors.Validation("Validation failed", map[string]any{"enabled": "is required"}))
		return
	}

	state, res, err := fn(channel, *req.Enabled)
	if writeErr := httputil.WriteResult(w, res, toggleResponse{Channel: channel, State: state}, err); writeErr != nil {
		h.log.Error("failed to write result response", "handler", name, "operation", "WriteResult", "error", writeErr)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
