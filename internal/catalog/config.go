package catalog

import (
	"log/slog"
	"net/http"
	"time"

	"macrotrack.app/internal/nutrition"
)

type Config struct {
	// Source is a local path or an http(s) URL of the nutrition table.
	Source  string
	Columns nutrition.Columns
	// RefreshInterval re-reads Source periodically when positive.
	RefreshInterval time.Duration
	Logger          *slog.Logger
	// HTTPClient fetches remote sources. http.DefaultClient is used when nil.
	HTTPClient *http.Client
}

func (config Config) refreshEnabled() bool {
	return config.RefreshInterval > 0
}
