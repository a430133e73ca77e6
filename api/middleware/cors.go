package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/artemisia-corp/storefront/pkg/config"
)

// CORS lets the storefront UI origins call the API with the session cookie.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After", "X-Artemisia-Env"},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAgeSeconds,
	}).Handler
}
