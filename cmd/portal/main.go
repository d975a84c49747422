package main

import (
	"github.com/joho/godotenv"

	authhandler "hotelbox/internal/auth/handler"
	authservice "hotelbox/internal/auth/service"
	carthandler "hotelbox/internal/cart/handler"
	cartservice "hotelbox/internal/cart/service"
	contacthandler "hotelbox/internal/contactus/handler"
	"hotelbox/internal/contactus/repository"
	contactservice "hotelbox/internal/contactus/service"
	historyhandler "hotelbox/internal/history/handler"
	historyservice "hotelbox/internal/history/service"
	hotelhandler "hotelbox/internal/hotels/handler"
	hotelservice "hotelbox/internal/hotels/service"
	"hotelbox/internal/notifications/consumer"
	notificationhandler "hotelbox/internal/notifications/handler"
	"hotelbox/internal/notifications/reconciler"
	notificationservice "hotelbox/internal/notifications/service"
	"hotelbox/pkg/app"
	"hotelbox/pkg/client"
	"hotelbox/pkg/config"
	"hotelbox/pkg/contracts"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

const ServiceName = "portal"

func main() {
	_ = godotenv.Overload()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting hotel agent portal")
	sessions := session.NewManager(session.Config{
		TTL:       cfg.SessionTTL,
		InboxSize: cfg.ToastInboxSize,
	}, session.NewTokenParser(cfg.JWTSecret), cfg.Log)

	serverApp := app.NewApplication(cfg, sessions)
	handlers, notifications := initHandlers(cfg, sessions, serverApp.Publisher())

	serverApp.Consume(cfg.BookingStatusTopic, cfg.BookingStatusGroup,
		consumer.NewBookingStatusHandler(sessions, notifications, cfg.Log).Handle)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, sessions *session.Manager, publisher kafka.Publisher) ([]contracts.Handler, notificationservice.NotificationService) {
	upstream := client.NewUpstream(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	v := validation.New(cfg.PhoneRegion)
	events := kafka.NewEmitter(publisher, model.EventSource, model.EventSchemaVersion, cfg.Log)

	authService := authservice.NewAuthService(upstream.Auth, sessions, v, cfg.Log)
	hotelService := hotelservice.NewHotelService(upstream.Hotels, cfg.Log)
	cartService := cartservice.NewCartService(upstream.Cart, upstream.Account, v, events,
		cartservice.Config{PromoRate: cfg.PromoRate}, cfg.Log)
	historyService := historyservice.NewHistoryService(upstream.Bookings, events, cfg.Log)
	notificationService := notificationservice.NewNotificationService(upstream.Notifications, upstream.Account, v,
		reconciler.Options{RollbackOnFailure: cfg.NotificationRollbackOnFailure}, cfg.Log)
	contactService := contactservice.NewContactUsService(upstream.Account, repository.NewMongoTicketRepository(cfg), v, events,
		contactservice.Config{MaxInquiries: cfg.ContactMaxInquiries, Window: cfg.ContactInquiryWindow}, cfg.Log)

	cfg.Log.Info("Portal services initialized",
		"upstream", cfg.UpstreamBaseURL,
		"database", cfg.MongoDatabaseName,
	)

	return []contracts.Handler{
		authhandler.NewAuthHandler(authService, authhandler.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SessionCookieSecure,
		}, cfg.Log),
		hotelhandler.NewHotelHandler(hotelService, cfg.Log),
		carthandler.NewCartHandler(cartService, cfg.Log),
		historyhandler.NewHistoryHandler(historyService, cfg.Log),
		notificationhandler.NewNotificationHandler(notificationService, cfg.Log),
		contacthandler.NewContactUsHandler(contactService, cfg.Log),
	}, notificationService
}
