package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotelbox/pkg/client"
	"hotelbox/pkg/logger"
)

var (
	reMongoScheme     = regexp.MustCompile(`^mongodb(\+srv)?://`)
	reMongoCredential = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	rePhoneRegion     = regexp.MustCompile(`^[A-Z]{2}$`)
)

type Config struct {
	Port string

	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	JWTSecret           string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	NotificationRollbackOnFailure bool
	PromoRate                     float64
	PhoneRegion                   string
	ToastInboxSize                int

	ContactMaxInquiries  int
	ContactInquiryWindow time.Duration

	KafkaEnabled       bool
	PortalEventsTopic  string
	BookingStatusTopic string
	BookingStatusGroup string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the environment without validating it.
func FromEnv(serviceName string) *Config {
	return &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		UpstreamBaseURL: strings.TrimRight(getEnvStr(EnvUpstreamBaseURL, DefaultUpstreamBaseURL), "/"),
		UpstreamTimeout: getEnvDuration(EnvUpstreamTimeout, DefaultUpstreamTimeout),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		SessionTTL:          getEnvDuration(EnvSessionTTL, DefaultSessionTTL),
		SessionCookieName:   getEnvStr(EnvSessionCookieName, DefaultSessionCookieName),
		SessionCookieSecure: getEnvBool(EnvSessionCookieSecure, false),
		JWTSecret:           getEnvStr(EnvJWTSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		NotificationRollbackOnFailure: getEnvBool(EnvNotificationRollbackOnFailure, false),
		PromoRate:                     getEnvFloat(EnvPromoRate, DefaultPromoRate),
		PhoneRegion:                   strings.ToUpper(getEnvStr(EnvPhoneRegion, DefaultPhoneRegion)),
		ToastInboxSize:                getEnvNum(EnvToastInboxSize, DefaultToastInboxSize),

		ContactMaxInquiries:  getEnvNum(EnvContactMaxInquiries, DefaultContactMaxInquiries),
		ContactInquiryWindow: getEnvDuration(EnvContactInquiryWindow, DefaultContactInquiryWindow),

		KafkaEnabled:       getEnvBool(EnvKafkaEnabled, false),
		PortalEventsTopic:  getEnvStr(EnvPortalEventsTopic, DefaultPortalEventsTopic),
		BookingStatusTopic: getEnvStr(EnvBookingStatusTopic, DefaultBookingStatusTopic),
		BookingStatusGroup: getEnvStr(EnvBookingStatusGroup, DefaultBookingStatusGroup),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.UpstreamBaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errors = append(errors, fmt.Sprintf("UpstreamBaseURL must be an absolute http(s) URL, got: %s", cfg.UpstreamBaseURL))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !reMongoScheme.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.SessionCookieName == "" {
		errors = append(errors, "SessionCookieName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"UpstreamTimeout", cfg.UpstreamTimeout},
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"SessionTTL", cfg.SessionTTL},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"ContactInquiryWindow", cfg.ContactInquiryWindow},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ToastInboxSize <= 0 {
		errors = append(errors, fmt.Sprintf("ToastInboxSize must be positive, got: %d", cfg.ToastInboxSize))
	}
	if cfg.ContactMaxInquiries < 0 {
		errors = append(errors, fmt.Sprintf("ContactMaxInquiries cannot be negative, got: %d", cfg.ContactMaxInquiries))
	}
	if cfg.PromoRate < 0 || cfg.PromoRate > 1 {
		errors = append(errors, fmt.Sprintf("PromoRate must be between 0 and 1, got: %g", cfg.PromoRate))
	}
	if !rePhoneRegion.MatchString(cfg.PhoneRegion) {
		errors = append(errors, fmt.Sprintf("PhoneRegion must be a two letter region code, got: %s", cfg.PhoneRegion))
	}

	if cfg.KafkaEnabled {
		if cfg.PortalEventsTopic == "" {
			errors = append(errors, "PortalEventsTopic cannot be empty when Kafka is enabled")
		}
		if cfg.BookingStatusTopic == "" {
			errors = append(errors, "BookingStatusTopic cannot be empty when Kafka is enabled")
		}
		if cfg.BookingStatusGroup == "" {
			errors = append(errors, "BookingStatusGroup cannot be empty when Kafka is enabled")
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"upstream_base_url", cfg.UpstreamBaseURL,
		"upstream_timeout", cfg.UpstreamTimeout,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"session_ttl", cfg.SessionTTL,
		"session_cookie_name", cfg.SessionCookieName,
		"session_cookie_secure", cfg.SessionCookieSecure,
		"jwt_secret_set", cfg.JWTSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"notification_rollback_on_failure", cfg.NotificationRollbackOnFailure,
		"promo_rate", cfg.PromoRate,
		"phone_region", cfg.PhoneRegion,
		"toast_inbox_size", cfg.ToastInboxSize,
		"contact_max_inquiries", cfg.ContactMaxInquiries,
		"contact_inquiry_window", cfg.ContactInquiryWindow,
		"kafka_enabled", cfg.KafkaEnabled,
		"portal_events_topic", cfg.PortalEventsTopic,
		"booking_status_topic", cfg.BookingStatusTopic,
	)
}

func (cfg *Config) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := cfg.Client.GracefulShutdown(ctx); err != nil {
		cfg.Log.Error("failed to disconnect clients", "error", err)
	}
}

func redactMongoURI(uri string) string {
	return reMongoCredential.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	return min(limit, MaxPaginationLimit)
}

func NormalizePage(page int) int {
	return max(1, page)
}
