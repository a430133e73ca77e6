package controllers

import (
	"net/http"
	"time"

	"github.com/artemisia-corp/storefront/api/middleware"
	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/internal/workspace"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/config"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// WorkspaceSource hands out the workspace bound to a session.
type WorkspaceSource interface {
	Get(sess *session.Session) (*workspace.Workspace, error)
}

func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
		return nil, false
	}
	return sess, true
}

func workspaceFor(w http.ResponseWriter, r *http.Request, source WorkspaceSource, logg *logger.Logger) (*workspace.Workspace, bool) {
	sess, ok := requireSession(w, r, logg)
	if !ok {
		return nil, false
	}
	ws, err := source.Get(sess)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open workspace"))
		return nil, false
	}
	return ws, true
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
