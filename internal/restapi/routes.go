package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// validateAPIKey rejects requests without a known client key, then applies the per-key
// rate limit. Unknown keys never reach the limiter.
func (api *RestAPI) validateAPIKey(finalHandler http.HandlerFunc) http.Handler {
	limited := api.rateLimiter.Handler(finalHandler)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// Router builds the /api route table.
func (api *RestAPI) Router() *httprouter.Router {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.sendError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Handler(http.MethodGet, "/api/current-time.json", api.validateAPIKey(api.currentTimeHandler))

	router.Handler(http.MethodPost, "/api/register", api.validateAPIKey(api.registerHandler))
	router.Handler(http.MethodPost, "/api/login", api.validateAPIKey(api.loginHandler))

	router.Handler(http.MethodGet, "/api/summary.json", api.validateAPIKey(api.requireUser(api.summaryHandler)))
	router.Handler(http.MethodGet, "/api/entries.json", api.validateAPIKey(api.requireUser(api.listEntriesHandler)))
	router.Handler(http.MethodPost, "/api/entries", api.validateAPIKey(api.requireUser(api.createEntryHandler)))
	router.Handler(http.MethodDelete, "/api/entries/:id", api.validateAPIKey(api.requireUser(api.deleteEntryHandler)))
	router.Handler(http.MethodGet, "/api/goals.json", api.validateAPIKey(api.requireUser(api.getGoalsHandler)))
	router.Handler(http.MethodPut, "/api/goals", api.validateAPIKey(api.requireUser(api.updateGoalsHandler)))

	router.Handler(http.MethodGet, "/api/high-protein.json", api.validateAPIKey(api.requireUser(api.highProteinHandler)))
	router.Handler(http.MethodGet, "/api/food-suggestions.json", api.validateAPIKey(api.requireUser(api.foodSuggestionsHandler)))

	return router
}

// SetRoutes mounts the API on mux under /api/.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.Handle("/api/", api.Router())
}
