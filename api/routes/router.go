package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateoreynoso/tripline-backend/api/controllers"
	bookingcontrollers "github.com/mateoreynoso/tripline-backend/api/controllers/bookings"
	ratingcontrollers "github.com/mateoreynoso/tripline-backend/api/controllers/ratings"
	webhookcontrollers "github.com/mateoreynoso/tripline-backend/api/controllers/webhooks"
	"github.com/mateoreynoso/tripline-backend/api/middleware"
	internalbookings "github.com/mateoreynoso/tripline-backend/internal/bookings"
	"github.com/mateoreynoso/tripline-backend/internal/payments"
	internalratings "github.com/mateoreynoso/tripline-backend/internal/ratings"
	squarewebhook "github.com/mateoreynoso/tripline-backend/internal/webhooks/square"
	"github.com/mateoreynoso/tripline-backend/pkg/config"
	"github.com/mateoreynoso/tripline-backend/pkg/db"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/redis"
	"github.com/mateoreynoso/tripline-backend/pkg/square"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	bookingService internalbookings.Service,
	paymentService payments.Service,
	ratingService internalratings.Service,
	squareClient *square.Client,
	webhookListener squarewebhook.Service,
	webhookGuard *squarewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/square", webhookcontrollers.SquareWebhook(webhookListener, squareClient, webhookGuard, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))
			r.Get("/ping", controllers.AdminPing())
		})

		r.Route("/v1/bookings", func(r chi.Router) {
			r.Post("/", bookingcontrollers.Create(bookingService, logg))
			r.Get("/", bookingcontrollers.List(bookingService, logg))
			r.Get("/{bookingId}", bookingcontrollers.Detail(bookingService, logg))
			r.Post("/{bookingId}/payment", bookingcontrollers.InitiatePayment(paymentService, logg))
			r.Post("/{bookingId}/cancel", bookingcontrollers.Cancel(bookingService, paymentService, logg))
			r.Post("/{bookingId}/status", bookingcontrollers.UpdateStatus(bookingService, logg))
		})

		r.Route("/v1/ratings", func(r chi.Router) {
			r.Post("/", ratingcontrollers.Submit(ratingService, logg))
			r.Get("/community/{userId}", ratingcontrollers.Community(ratingService, logg))
		})
	})

	return r
}
