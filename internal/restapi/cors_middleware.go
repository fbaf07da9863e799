package restapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORSMiddleware allows browser clients on any origin. Credentials travel in the
// Authorization header, never in cookies, so AllowCredentials stays off.
func NewCORSMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}
