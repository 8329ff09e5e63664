package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/toughlovemassage/portal/internal/api/router"
	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/careers"
	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/clinic"
	appconfig "github.com/toughlovemassage/portal/internal/config"
	"github.com/toughlovemassage/portal/internal/giftcards"
	"github.com/toughlovemassage/portal/internal/http/handlers"
	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/internal/notify"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
	"github.com/toughlovemassage/portal/internal/performance"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/internal/scheduling"
	"github.com/toughlovemassage/portal/internal/soap"
	"github.com/toughlovemassage/portal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Repositories
	providersRepo := providers.NewRepository(pool)
	clientsRepo := clients.NewRepository(pool)
	clinicRepo := clinic.NewRepository(pool)
	intakeRepo := intake.NewRepository(pool)
	appointmentsRepo := scheduling.NewRepository(pool)
	soapRepo := soap.NewRepository(pool)
	careersRepo := careers.NewRepository(pool)
	performanceRepo := performance.NewRepository(pool)

	// Email: SendGrid when configured, SES as fallback, stub otherwise.
	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else if cfg.SESFromEmail != "" {
		awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	} else {
		logger.Warn("no email provider configured, emails will be logged only")
		sender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(sender, providersRepo, cfg.AdminEmail, bookingMetrics, logger)

	// Resume storage: S3 when a bucket is configured, local disk otherwise.
	var resumeStorage careers.Storage
	if cfg.ResumeBucket != "" {
		awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		resumeStorage = careers.NewS3Storage(s3.NewFromConfig(awsCfg), cfg.ResumeBucket, logger)
	} else {
		resumeStorage = careers.NewLocalStorage(cfg.ResumeUploadDir, logger)
	}

	// Services
	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)
	authService := auth.NewService(providersRepo, sessions, logger)
	intakeService := intake.NewService(intakeRepo, clientsRepo, notifier, bookingMetrics, logger)
	schedulingService := scheduling.NewService(appointmentsRepo, providersRepo, clinicRepo, clientsRepo, bookingMetrics, logger)
	checkout := giftcards.NewStripeCheckoutService(cfg.StripeSecretKey, cfg.PublicBaseURL, logger).
		WithDryRun(cfg.StripeDryRun)
	giftCardService := giftcards.NewService(checkout, notifier, logger)
	careersService := careers.NewService(careersRepo, resumeStorage, notifier, logger)

	r := router.New(&router.Config{
		Logger:   logger,
		Sessions: authService,
		Accounts: providersRepo,

		Auth:         handlers.NewAuthHandler(authService, logger),
		Webhook:      handlers.NewFullSlateWebhookHandler(intakeService, bookingMetrics, logger),
		Intakes:      handlers.NewPortalIntakesHandler(intakeService, logger),
		Appointments: handlers.NewAppointmentsHandler(schedulingService, logger),
		SOAPNotes:    handlers.NewSOAPNotesHandler(soapRepo, logger),
		Clients:      handlers.NewPortalClientsHandler(clientsRepo, logger),
		Providers:    handlers.NewAdminProvidersHandler(providersRepo, logger),
		ProviderSelf: handlers.NewProviderSelfHandler(providersRepo, logger),
		Clinic:       handlers.NewClinicHandler(clinicRepo, logger),
		GiftCards:    handlers.NewGiftCardsHandler(giftCardService, logger),
		Careers:      handlers.NewCareersHandler(careersService, logger),
		Performance:  handlers.NewPerformanceHandler(performanceRepo, logger),

		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
