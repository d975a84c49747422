package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvUpstreamBaseURL = "UPSTREAM_BASE_URL"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvSessionTTL          = "SESSION_TTL"
	EnvSessionCookieName   = "SESSION_COOKIE_NAME"
	EnvSessionCookieSecure = "SESSION_COOKIE_SECURE"
	EnvJWTSecret           = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvNotificationRollbackOnFailure = "NOTIFICATION_ROLLBACK_ON_FAILURE"
	EnvPromoRate                     = "PROMO_RATE"
	EnvPhoneRegion                   = "PHONE_REGION"
	EnvToastInboxSize                = "TOAST_INBOX_SIZE"

	EnvContactMaxInquiries  = "CONTACT_MAX_INQUIRIES"
	EnvContactInquiryWindow = "CONTACT_INQUIRY_WINDOW"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvPortalEventsTopic  = "PORTAL_EVENTS_TOPIC"
	EnvBookingStatusTopic = "BOOKING_STATUS_TOPIC"
	EnvBookingStatusGroup = "BOOKING_STATUS_GROUP"
)
