package controllers

import (
	"net/http"

	"github.com/artemisia-corp/storefront/api/middleware"
	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/api/validators"
	"github.com/artemisia-corp/storefront/internal/auth"
	"github.com/artemisia-corp/storefront/pkg/config"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// AuthLogin exchanges marketplace credentials for a storefront session.
func AuthLogin(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.SessionID, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout drops the session and its workspace.
func AuthLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.SessionID(r, cfg.CookieName)
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}
		if err := svc.Logout(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]bool{"logged_out": true})
	}
}
