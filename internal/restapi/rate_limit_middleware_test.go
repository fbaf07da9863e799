package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrotrack.app/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(handler http.Handler, key string) *httptest.ResponseRecorder {
	target := "/test"
	if key != "" {
		target += "?key=" + key
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", target, nil))
	return recorder
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	middleware := NewRateLimitMiddleware(3, time.Second)
	defer middleware.Stop()
	limited := middleware.Handler(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(limited, "alice").Code, "request %d should be allowed", i+1)
	}

	recorder := hit(limited, "alice")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "1", recorder.Header().Get("Retry-After"))
	assert.Equal(t, "3", recorder.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", recorder.Header().Get("X-RateLimit-Remaining"))

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&model))
	assert.Equal(t, http.StatusTooManyRequests, model.Code)
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	middleware := NewRateLimitMiddleware(2, time.Second)
	defer middleware.Stop()
	limited := middleware.Handler(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, hit(limited, "key-1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "key-1").Code)

	assert.Equal(t, http.StatusOK, hit(limited, "key-2").Code, "keys have separate budgets")
	assert.Equal(t, http.StatusOK, hit(limited, "").Code)
	assert.Equal(t, http.StatusOK, hit(limited, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "").Code, "requests without a key share one budget")
}

func TestRateLimitMiddleware_Refills(t *testing.T) {
	middleware := NewRateLimitMiddleware(10, time.Second)
	defer middleware.Stop()
	limited := middleware.Handler(okHandler())

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(limited, "refill").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "refill").Code)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(limited, "refill").Code)
}

func TestRateLimitMiddleware_ZeroAndNegativeRates(t *testing.T) {
	blocked := NewRateLimitMiddleware(0, time.Second)
	defer blocked.Stop()
	recorder := hit(blocked.Handler(okHandler()), "any")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "3600", recorder.Header().Get("Retry-After"))

	unlimited := NewRateLimitMiddleware(-1, time.Second)
	defer unlimited.Stop()
	handler := unlimited.Handler(okHandler())
	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, hit(handler, "any").Code)
	}
}

func TestRateLimitMiddleware_EvictIdle(t *testing.T) {
	middleware := NewRateLimitMiddleware(5, time.Second)
	defer middleware.Stop()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	middleware.now = func() time.Time { return now }

	limited := middleware.Handler(okHandler())
	hit(limited, "old")
	now = now.Add(9 * time.Minute)
	hit(limited, "recent")
	now = now.Add(2 * time.Minute)

	middleware.evictIdle()

	middleware.mu.Lock()
	defer middleware.mu.Unlock()
	assert.NotContains(t, middleware.limiters, "old")
	assert.Contains(t, middleware.limiters, "recent")
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	middleware := NewRateLimitMiddleware(50, time.Minute)
	defer middleware.Stop()
	limited := middleware.Handler(okHandler())

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := hit(limited, fmt.Sprintf("key-%d", i%2)).Code
			if code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, allowed, "two keys with a burst of 50 each")

	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "key-0").Code)
}

func TestRateLimitMiddleware_StopIsIdempotent(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second)
	middleware.Stop()
	assert.NotPanics(t, middleware.Stop)
}
