package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mateoreynoso/tripline-backend/api/responses"
	"github.com/mateoreynoso/tripline-backend/pkg/config"
	"github.com/mateoreynoso/tripline-backend/pkg/db"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tripline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tripline-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			checks["database"] = "missing"
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "down"
		} else {
			checks["database"] = "ok"
		}

		if redisP == nil {
			checks["redis"] = "missing"
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = "down"
		} else {
			checks["redis"] = "ok"
		}

		for _, status := range checks {
			if status != "ok" {
				err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(checks)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
