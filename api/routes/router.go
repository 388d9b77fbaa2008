package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rakapradana/kursusku-backend/api/controllers"
	webhookcontrollers "github.com/rakapradana/kursusku-backend/api/controllers/webhooks"
	"github.com/rakapradana/kursusku-backend/api/middleware"
	midtranswebhook "github.com/rakapradana/kursusku-backend/internal/webhooks/midtrans"
	"github.com/rakapradana/kursusku-backend/pkg/config"
	"github.com/rakapradana/kursusku-backend/pkg/db"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
	"github.com/rakapradana/kursusku-backend/pkg/redis"
)

type webhookGuard interface {
	Seen(ctx context.Context, notificationID string) (bool, error)
	Mark(ctx context.Context, notificationID string) error
}

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        redis.Pinger
	Payments     controllers.PaymentService
	Certificates controllers.CertificateService
	Webhook      webhookcontrollers.MidtransWebhookService
	WebhookGuard *midtranswebhook.IdempotencyGuard
	Metrics      http.Handler
}

// NewRouter assembles the chi router with the platform middleware chain.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	metricsHandler := params.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/certificates/*", controllers.VerifyCertificate(params.Certificates, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		var guard webhookGuard
		if params.WebhookGuard != nil {
			guard = params.WebhookGuard
		}
		r.Post("/midtrans", webhookcontrollers.MidtransWebhook(params.Webhook, guard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/payments", controllers.CreatePayment(params.Payments, logg))
		r.Post("/certificates", controllers.IssueCertificate(params.Certificates, logg))
	})

	return r
}
