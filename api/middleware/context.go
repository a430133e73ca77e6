package middleware

import (
	"context"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the session attached by SessionAuth, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the resolved session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// RoleFromContext returns the session role as a string.
func RoleFromContext(ctx context.Context) string {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.Role.String()
	}
	return ""
}
