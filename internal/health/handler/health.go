package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "hotelbox/pkg/http"
	kafka_middleware "hotelbox/pkg/kafka/middleware"
	"hotelbox/pkg/logger"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	PingMongo(ctx context.Context) error
}

type SessionCounter interface {
	Len() int
}

type HealthResponse struct {
	Status   string                     `json:"status"`
	Database string                     `json:"database,omitempty"`
	Sessions *int                       `json:"sessions,omitempty"`
	Kafka    *kafka_middleware.Snapshot `json:"kafka,omitempty"`
}

type HealthHandler struct {
	db       Pinger
	sessions SessionCounter
	metrics  *kafka_middleware.Metrics
	log      *logger.Logger
}

// NewHealthHandler builds the liveness and readiness probes. metrics may be
// nil when Kafka is disabled.
func NewHealthHandler(db Pinger, sessions SessionCounter, metrics *kafka_middleware.Metrics, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		sessions: sessions,
		metrics:  metrics,
		log:      log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.PingMongo(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	resp := HealthResponse{
		Status:   "ready",
		Database: "ok",
	}
	if h.sessions != nil {
		n := h.sessions.Len()
		resp.Sessions = &n
	}
	if h.metrics != nil {
		snapshot := h.metrics.Snapshot()
		resp.Kafka = &snapshot
	}

	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
