package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/artemisia-corp/storefront/api/responses"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
	"github.com/artemisia-corp/storefront/pkg/redis"
)

const readyTimeout = 2 * time.Second

// HealthLive reports the process is up.
func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Artemisia-Env", env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the session store answers a ping.
func HealthReady(env string, logg *logger.Logger, sessions redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Artemisia-Env", env)
		if sessions != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := sessions.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
					WithDetails(map[string]any{"dependency": "redis"}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
