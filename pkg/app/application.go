package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/julienschmidt/httprouter"

	healthhandler "hotelbox/internal/health/handler"
	"hotelbox/pkg/config"
	"hotelbox/pkg/contracts"
	"hotelbox/pkg/kafka"
	kafka_config "hotelbox/pkg/kafka/config"
	kafka_middleware "hotelbox/pkg/kafka/middleware"
	"hotelbox/pkg/middleware"
	"hotelbox/pkg/session"
)

// PublicPrefixes are reachable without a portal session.
var PublicPrefixes = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/auth/register",
	"/health",
	"/ready",
}

type Application struct {
	cfg              *config.Config
	sessions         *session.Manager
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	healthHandler    http.Handler
	appHttpHandler   http.Handler

	kafkaCfg  *kafka_config.Config
	metrics   *kafka_middleware.Metrics
	producer  *kafka.Producer
	consumers []*kafka.Consumer
	workers   sync.WaitGroup
	stop      context.CancelFunc
}

func NewApplication(cfg *config.Config, sessions *session.Manager) *Application {
	a := &Application{
		cfg:      cfg,
		sessions: sessions,
	}

	if cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		a.kafkaCfg = kafkaCfg
		a.metrics = kafka_middleware.NewMetrics()
		kafkaCfg.LogConfiguration(cfg.Log)
	}
	return a
}

// Publisher returns the portal events producer, or a no-op publisher when
// Kafka is disabled.
func (a *Application) Publisher() kafka.Publisher {
	if a.kafkaCfg == nil {
		return kafka.NopPublisher{}
	}
	if a.producer != nil {
		return a.producer
	}

	producer, err := kafka.NewProducer(a.kafkaCfg, a.cfg.PortalEventsTopic, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", a.cfg.PortalEventsTopic)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(a.cfg.Log))
	producer.Use(a.metrics.Producer())
	a.producer = producer
	return producer
}

// Consume registers a consumer that starts with Run. It is skipped when
// Kafka is disabled.
func (a *Application) Consume(topic, groupID string, handler kafka.MessageHandler) {
	if a.kafkaCfg == nil {
		a.cfg.Log.Info("Kafka disabled, consumer not started", "topic", topic)
		return
	}

	consumer, err := kafka.NewConsumer(a.kafkaCfg, topic, groupID, handler, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka consumer", "error", err, "topic", topic, "group_id", groupID)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(a.cfg.Log))
	consumer.Use(a.metrics.Consumer())
	a.consumers = append(a.consumers, consumer)
}

func (a *Application) SetApp(handlers ...contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers)
	a.setAppServer()
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	healthhandler.NewHealthHandler(a.cfg.Client, a.sessions, a.metrics, a.cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	sessionKey := middleware.SessionCookieExtractor(a.cfg.SessionCookieName)
	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		sessionKey,
		a.cfg.Log,
	)

	// Recovery → Logging → MaxSize → ContentType → RateLimit → Timeout → Idempotency → Session → Router
	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.SessionAuth(a.sessions, a.cfg.SessionCookieName, a.cfg.Log, PublicPrefixes...)(appHttpHandler)
	appHttpHandler = middleware.Idempotency(a.idempotencyStore, sessionKey)(appHttpHandler)
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.RateLimit(a.rateLimiter)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log, middleware.ContentTypeJSON, middleware.ContentTypeMultipart)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack", "handlers", len(handlers))
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler exposes the composed HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) startConsumers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel

	for _, c := range a.consumers {
		a.workers.Add(1)
		go func(c *kafka.Consumer) {
			defer a.workers.Done()
			if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.cfg.Log.Error("Kafka consumer stopped", "error", err)
			}
		}(c)
	}
	if len(a.consumers) > 0 {
		a.cfg.Log.Info("Kafka consumers started", "count", len(a.consumers))
	}
}

func (a *Application) Run() {
	a.startConsumers()

	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}
	a.cfg.Log.Info("Server stopped gracefully")

	a.cfg.Log.Info("Stopping background workers...")
	if a.stop != nil {
		a.stop()
	}
	a.workers.Wait()
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.cfg.Log.Error("Kafka consumer close failed", "error", err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.cfg.Log.Error("Kafka producer close failed", "error", err)
		}
	}
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	a.sessions.Stop()
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
}
