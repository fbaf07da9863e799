package restapi

import (
	"encoding/json"
	"net/http"

	"macrotrack.app/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.sendResponseWithStatus(w, r, http.StatusOK, response)
}

func (api *RestAPI) sendCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	api.sendResponseWithStatus(w, r, http.StatusCreated, models.NewResponse(http.StatusCreated, data, "Created"))
}

func (api *RestAPI) sendNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (api *RestAPI) sendResponseWithStatus(w http.ResponseWriter, r *http.Request, status int, response models.ResponseModel) {
	setJSONResponseType(w)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusNotFound, "resource not found")
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, status int, text string) {
	api.sendResponseWithStatus(w, r, status, models.NewErrorResponse(status, text))
}

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}
