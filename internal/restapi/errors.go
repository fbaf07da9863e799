package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/nutrition"
)

func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) unauthorizedResponse(w http.ResponseWriter, r *http.Request, text string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="macrotrack"`)
	api.sendError(w, r, http.StatusUnauthorized, text)
}

func (api *RestAPI) conflictResponse(w http.ResponseWriter, r *http.Request, text string) {
	api.sendError(w, r, http.StatusConflict, text)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 with field-specific messages.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

// invalidParameterResponse maps ranking parameter errors to field errors. Any other
// error is a server error.
func (api *RestAPI) invalidParameterResponse(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *nutrition.InvalidParameterError
	if errors.As(err, &paramErr) {
		api.validationErrorResponse(w, r, map[string][]string{
			paramErr.Field: {paramErr.Reason},
		})
		return
	}
	api.serverErrorResponse(w, r, err)
}
