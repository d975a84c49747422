package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/contactus/service"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
)

type ContactUsHandler struct {
	service service.ContactUsService
	log     *logger.Logger
}

func NewContactUsHandler(service service.ContactUsService, log *logger.Logger) *ContactUsHandler {
	return &ContactUsHandler{
		service: service,
		log:     log,
	}
}

func (h *ContactUsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/contact-us", h.Context)
	router.POST("/api/v1/contact-us", h.Submit)
}

func (h *ContactUsHandler) Context(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, err := h.service.Context(r.Context())
	if err != nil {
		h.writeError(w, "Context", err)
		return
	}
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", "Context", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactUsHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactUsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	receipt, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}
	if err := httputil.WriteCreated(w, receipt); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactUsHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
