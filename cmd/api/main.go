package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mateoreynoso/tripline-backend/api/routes"
	"github.com/mateoreynoso/tripline-backend/internal/bookings"
	"github.com/mateoreynoso/tripline-backend/internal/catalog"
	"github.com/mateoreynoso/tripline-backend/internal/payments"
	"github.com/mateoreynoso/tripline-backend/internal/pricing"
	"github.com/mateoreynoso/tripline-backend/internal/ratings"
	squarewebhook "github.com/mateoreynoso/tripline-backend/internal/webhooks/square"
	"github.com/mateoreynoso/tripline-backend/pkg/config"
	"github.com/mateoreynoso/tripline-backend/pkg/db"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/migrate"
	"github.com/mateoreynoso/tripline-backend/pkg/outbox"
	"github.com/mateoreynoso/tripline-backend/pkg/redis"
	"github.com/mateoreynoso/tripline-backend/pkg/square"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square client", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	calculator, err := pricing.NewCalculator(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing calculator", err)
		os.Exit(1)
	}

	bookingRepo := bookings.NewRepository(dbClient.DB())
	bookingService, err := bookings.NewService(
		bookingRepo,
		catalog.NewRepository(dbClient.DB()),
		calculator,
		bookings.NewSlotReserver(logg),
		dbClient,
		outboxService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(squareClient, bookingService, bookingRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	ratingService, err := ratings.NewService(ratings.NewRepository(dbClient.DB()), dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rating service", err)
		os.Exit(1)
	}

	webhookListener, err := squarewebhook.NewService(
		bookingService,
		paymentService,
		squarewebhook.NewRepository(dbClient.DB()),
		logg,
		squarewebhook.RetryPolicy{
			Window:      cfg.Reconciler.WebhookRetryWindow,
			MaxAttempts: cfg.Reconciler.WebhookMaxAttempts,
			BatchSize:   cfg.Reconciler.BatchSize,
		},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook listener", err)
		os.Exit(1)
	}

	webhookGuard, err := squarewebhook.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, "webhook:square")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			bookingService,
			paymentService,
			ratingService,
			squareClient,
			webhookListener,
			webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
