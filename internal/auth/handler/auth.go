package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/auth/service"
	httputil "hotelbox/pkg/http"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/middleware"
	"hotelbox/pkg/model"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service service.AuthService
	cookie  CookieConfig
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		log:     log,
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/auth/refresh", h.Refresh)
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/logout", h.Logout)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}
	h.writeSession(w, "Login", res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, err := h.service.Refresh(r.Context(), middleware.SessionID(r, h.cookie.Name), r.Cookies())
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}
	h.writeSession(w, "Refresh", res)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	msg, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}
	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.SuccessResponse{Message: msg}); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	if err := httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{Message: service.MsgLoggedOut}); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "operation", "WriteJSON", "error", err)
	}
}

// writeSession sets the portal session cookie, forwards the backend's own
// cookies (the refresh token) and answers with the session view.
func (h *AuthHandler) writeSession(w http.ResponseWriter, name string, res *service.Result) {
	for _, c := range res.Cookies {
		http.SetCookie(w, c)
	}
	expires := res.Session.ExpiresAt()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    res.Session.ID,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if err := httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{Data: res.View(), Message: res.Message}); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
