// Package webui serves developer-facing debug pages. They are only mounted outside
// production.
package webui

import (
	"net/http"

	"macrotrack.app/internal/app"
)

type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/", webUI.debugIndexHandler)
}
