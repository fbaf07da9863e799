package restapi

import (
	"net/http"

	"macrotrack.app/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(api.now())))
}
