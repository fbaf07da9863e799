package restapi

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"macrotrack.app/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	now         func() time.Time
}

// NewRestAPI creates a RestAPI with a per-key rate limiter built from the config.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		now:         time.Now,
	}
}

// Close stops the rate limiter's cleanup goroutine.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}

// WithMiddleware wraps next in the server's middleware chain, outermost first.
func (api *RestAPI) WithMiddleware(next http.Handler) http.Handler {
	return chainMiddleware(next,
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		NewRequestLoggingMiddleware(api.Logger),
		chimiddleware.Recoverer,
		securityHeaders,
		NewCORSMiddleware(),
		CompressionMiddleware,
	)
}

func chainMiddleware(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
