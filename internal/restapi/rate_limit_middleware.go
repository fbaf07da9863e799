package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"macrotrack.app/internal/models"
)

// RateLimitMiddleware limits requests per API key.
type RateLimitMiddleware struct {
	limiters    map[string]*limiterEntry
	mu          sync.Mutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	idleTimeout time.Duration
	done        chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval for each key, with
// an equal burst. A negative rate disables limiting; zero blocks every request.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration) *RateLimitMiddleware {
	var limit rate.Limit
	switch {
	case ratePerInterval < 0:
		limit = rate.Inf
	case ratePerInterval == 0:
		limit = 0
	default:
		limit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*limiterEntry),
		rateLimit:   limit,
		burstSize:   max(ratePerInterval, 0),
		cleanupTick: time.NewTicker(5 * time.Minute),
		idleTimeout: 10 * time.Minute,
		done:        make(chan struct{}),
		now:         time.Now,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[apiKey]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[apiKey] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Handler is the middleware function.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.URL.Query().Get("key")
		if apiKey == "" {
			apiKey = "__no_key__"
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	retryAfter := time.Second
	switch rl.rateLimit {
	case 0:
		retryAfter = time.Hour
	case rate.Inf:
	default:
		retryAfter = max(time.Duration(float64(time.Second)/float64(rl.rateLimit)), time.Second)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(models.NewErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."))
}

// cleanup drops limiters of keys not seen for idleTimeout.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.evictIdle()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimitMiddleware) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTimeout)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
