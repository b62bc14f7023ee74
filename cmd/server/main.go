package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/config"
	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/database"
	"github.com/meadows123/venuebook/internal/handler"
	"github.com/meadows123/venuebook/internal/middleware"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/repository"
	"github.com/meadows123/venuebook/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, webhook replay protection disabled")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool, rdb)
	router.GET("/health", healthHandler.Health)
	handler.SetupSwagger(router)

	setupAPIRoutes(router, pool, rdb, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) {
	registry := currency.DefaultRegistry()
	factory := processor.NewFactory(registry, processor.FactoryConfig{
		PaystackSecretKey:   cfg.PaystackSecretKey,
		PaystackSubaccount:  cfg.PaystackSubaccount,
		StripeSecretKey:     cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		PlatformFeePct:      cfg.PlatformFeePct,
	})

	venueRepo := repository.NewVenueRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	creditRepo := repository.NewCreditRepository(pool)

	availabilityService := service.NewAvailabilityService(venueRepo, bookingRepo)
	bookingService := service.NewBookingService(bookingRepo, venueRepo)
	paymentService := service.NewPaymentService(factory, registry, bookingRepo, venueRepo, paymentRepo, creditRepo)
	creditService := service.NewCreditService(factory, registry, venueRepo, paymentRepo, creditRepo)
	webhookService := service.NewWebhookService(factory, paymentRepo, bookingRepo, creditRepo, rdb)

	venueHandler := handler.NewVenueHandler(venueRepo)
	bookingHandler := handler.NewBookingHandler(bookingService, availabilityService)
	paymentHandler := handler.NewPaymentHandler(paymentService, creditService)
	webhookHandler := handler.NewWebhookHandler(webhookService)

	api := router.Group("/api/v1")
	{
		api.POST("/venues", venueHandler.Create)
		api.GET("/venues", venueHandler.List)
		api.GET("/venues/:id/availability", bookingHandler.Availability)
		api.GET("/venues/:id/availability/tables", bookingHandler.TableAvailability)
		api.POST("/bookings", bookingHandler.Create)
		api.POST("/payments/initialize", paymentHandler.Initialize)
		api.POST("/credits/purchase", paymentHandler.PurchaseCredits)
		api.GET("/credits/balance", paymentHandler.CreditBalance)
	}

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/paystack", webhookHandler.Paystack)
		webhooks.POST("/stripe", webhookHandler.Stripe)
	}
}
