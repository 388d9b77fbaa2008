package controllers

import (
	"net/http"

	"github.com/rakapradana/kursusku-backend/api/responses"
	"github.com/rakapradana/kursusku-backend/pkg/config"
	"github.com/rakapradana/kursusku-backend/pkg/db"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
	"github.com/rakapradana/kursusku-backend/pkg/redis"
)

const envHeader = "X-KursusKu-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores; a failing dependency flips the check.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		ready := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "down"
				ready = false
				if logg != nil {
					logg.Error(ctx, "database ping failed", err)
				}
			} else {
				checks["database"] = "up"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				ready = false
				if logg != nil {
					logg.Error(ctx, "redis ping failed", err)
				}
			} else {
				checks["redis"] = "up"
			}
		}

		status := http.StatusOK
		payload := map[string]any{"status": "ready", "checks": checks}
		if !ready {
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
		}
		responses.WriteSuccessStatus(w, status, payload)
	}
}
