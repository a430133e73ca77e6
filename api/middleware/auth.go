package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
}

// SessionID extracts the session id from the cookie or an Authorization bearer header.
func SessionID(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(c.Value) != "" {
			return strings.TrimSpace(c.Value)
		}
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}

// SessionAuth resolves the storefront session and seeds the request context with it.
func SessionAuth(cookieName string, resolver sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := SessionID(r, cookieName)
			if id == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
				return
			}

			sess, err := resolver.Resolve(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
				ctx = logg.WithUserID(ctx, strconv.FormatInt(sess.UserID, 10))
				ctx = logg.WithRole(ctx, sess.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches a session when one resolves and lets anonymous requests through.
func OptionalSession(cookieName string, resolver sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := SessionID(r, cookieName)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := resolver.Resolve(r.Context(), id)
			if err != nil {
				if !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
