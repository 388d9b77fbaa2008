package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rakapradana/kursusku-backend/api/routes"
	"github.com/rakapradana/kursusku-backend/internal/certificates"
	"github.com/rakapradana/kursusku-backend/internal/courses"
	"github.com/rakapradana/kursusku-backend/internal/enrollments"
	"github.com/rakapradana/kursusku-backend/internal/payments"
	"github.com/rakapradana/kursusku-backend/internal/users"
	midtranswebhook "github.com/rakapradana/kursusku-backend/internal/webhooks/midtrans"
	"github.com/rakapradana/kursusku-backend/pkg/config"
	"github.com/rakapradana/kursusku-backend/pkg/db"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
	"github.com/rakapradana/kursusku-backend/pkg/metrics"
	"github.com/rakapradana/kursusku-backend/pkg/midtrans"
	"github.com/rakapradana/kursusku-backend/pkg/migrate"
	"github.com/rakapradana/kursusku-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	midtransClient, err := midtrans.NewClient(context.Background(), cfg.Midtrans, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create midtrans client", err)
		os.Exit(1)
	}

	enrollmentService, err := enrollments.NewService(enrollments.ServiceParams{
		Repo:   enrollments.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create enrollments service", err)
		os.Exit(1)
	}

	paymentsRepo := payments.NewRepository(dbClient.DB())
	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:    paymentsRepo,
		Users:   users.NewRepository(dbClient.DB()),
		Courses: courses.NewRepository(dbClient.DB()),
		Gateway: midtransClient,
		Logger:  logg,
		Metrics: paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	webhookService, err := midtranswebhook.NewService(midtranswebhook.ServiceParams{
		Repo:        paymentsRepo,
		Enrollments: enrollmentService,
		ServerKey:   midtransClient.ServerKey(),
		Logger:      logg,
		Metrics:     paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := midtranswebhook.NewIdempotencyGuard(redisClient, cfg.Midtrans.NotificationDedupTTL, "midtrans-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	certificateService, err := certificates.NewService(certificates.ServiceParams{
		Repo:        certificates.NewRepository(dbClient.DB()),
		Enrollments: enrollments.NewRepository(dbClient.DB()),
		Config:      cfg.Certificates,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create certificates service", err)
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Payments:     paymentService,
			Certificates: certificateService,
			Webhook:      webhookService,
			WebhookGuard: webhookGuard,
			Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
