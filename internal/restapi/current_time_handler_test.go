package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentTimeHandler(t *testing.T) {
	api := createTestApi(t)

	resp := callAPI(t, api, http.MethodGet, "/api/current-time.json?key=TEST", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)

	model := resp.Model(t)
	assert.Equal(t, "OK", model.Text)

	entry, ok := resp.Data(t)["entry"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "2026-10-18T09:30:00Z", entry["readableTime"])
	assert.Equal(t, float64(testNow.UnixMilli()), entry["time"])
}

func TestCurrentTimeHandler_RequiresValidApiKey(t *testing.T) {
	api := createTestApi(t)

	for _, endpoint := range []string{
		"/api/current-time.json",
		"/api/current-time.json?key=WRONG",
	} {
		resp := callAPI(t, api, http.MethodGet, endpoint, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status, endpoint)
		model := resp.Model(t)
		assert.Equal(t, "permission denied", model.Text)
		assert.Nil(t, model.Data)
	}
}

func TestUnknownRoute(t *testing.T) {
	api := createTestApi(t)

	resp := callAPI(t, api, http.MethodGet, "/api/nothing-here.json?key=TEST", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, http.StatusNotFound, resp.Model(t).Code)

	resp = callAPI(t, api, http.MethodPost, "/api/current-time.json?key=TEST", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
}

func TestValidateAPIKey_UnknownKeysSkipRateLimiter(t *testing.T) {
	api := createTestApi(t)

	for _, key := range []string{"", "WRONG-1", "WRONG-2", "WRONG-3"} {
		resp := callAPI(t, api, http.MethodGet, "/api/current-time.json?key="+key, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	}
	assert.Empty(t, api.rateLimiter.limiters)

	resp := callAPI(t, api, http.MethodGet, "/api/current-time.json?key=TEST", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, api.rateLimiter.limiters, 1)
	assert.Contains(t, api.rateLimiter.limiters, "TEST")
}
