package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultUpstreamBaseURL = "http://localhost:3001"
	DefaultUpstreamTimeout = 10 * time.Second

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotelbox"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultSessionTTL        = 24 * time.Hour
	DefaultSessionCookieName = "hotelbox_session"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 5 * 1024 * 1024 // receipts are uploaded through the portal

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPromoRate      = 0.15
	DefaultPhoneRegion    = "ID"
	DefaultToastInboxSize = 50

	DefaultContactMaxInquiries  = 5
	DefaultContactInquiryWindow = 1 * time.Hour

	DefaultPortalEventsTopic  = "hotelbox.portal.events"
	DefaultBookingStatusTopic = "hotelbox.booking.status"
	DefaultBookingStatusGroup = "hotelbox-portal"

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)
