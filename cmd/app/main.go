// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendor-booking-platform/internal/config"
	"vendor-booking-platform/internal/domain/ports/adapter"
	notifyAdapters "vendor-booking-platform/internal/infra/adapters/notify"
	payAdapters "vendor-booking-platform/internal/infra/adapters/payment"
	pg "vendor-booking-platform/internal/infra/db/postgres"
	"vendor-booking-platform/internal/infra/logging"
	"vendor-booking-platform/internal/infra/metrics"
	red "vendor-booking-platform/internal/infra/redis"
	"vendor-booking-platform/internal/infra/web"
	"vendor-booking-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop payment/notify adapters)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	idemStore := red.NewIdempotencyStore(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	bookingRepo := pg.NewBookingRepo(pool)
	webhookRepo := pg.NewWebhookRepo(pool)
	customerRepo := pg.NewCustomerRepo(pool)
	catalogRepo := pg.NewCatalogRepoCacheDecorator(pg.NewCatalogRepo(pool), redisClient, cfg.Redis.CacheTTL)

	// ---- Adapters ----
	var provider adapter.PaymentProvider
	if cfg.Runtime.Dev {
		provider = payAdapters.NewNoopPaymentProvider()
		logger.Warn().Msg("payment provider: noop")
	} else {
		provider, err = payAdapters.NewHostedPayGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.WebhookSecret, cfg.Payment.Sandbox)
		if err != nil {
			logger.Fatal().Err(err).Msg("hostedpay gateway")
		}
	}

	var emitter adapter.NotificationEmitter
	if cfg.Notify.AMQPURL == "" || cfg.Runtime.Dev {
		emitter = notifyAdapters.NewNoopEmitter()
		logger.Warn().Msg("notification emitter: noop")
	} else {
		amqpEmitter, err := notifyAdapters.NewAMQPEmitter(cfg.Notify.AMQPURL, cfg.Notify.Queue, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("amqp emitter")
		}
		defer amqpEmitter.Close()
		emitter = amqpEmitter
	}

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(catalogRepo, idemStore, provider,
		cfg.Idempotency.ResponseTTL, cfg.Idempotency.ReserveTTL, cfg.Idempotency.WinnerWait, logger)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, webhookRepo, customerRepo, catalogRepo, txManager, emitter, logger)
	catalogUC := usecase.NewCatalogUseCase(catalogRepo)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(checkoutUC, bookingUC, catalogUC, provider, auth, rateLimiter, cfg.RateLimit.CheckoutPerMinute, logger)
	go func() {
		if err := srv.Start(cfg.Server.Port); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
