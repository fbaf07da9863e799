package app

import (
	"log/slog"

	"macrotrack.app/fooddb"
	"macrotrack.app/internal/appconf"
	"macrotrack.app/internal/auth"
	"macrotrack.app/internal/catalog"
	"macrotrack.app/internal/nutrition"
)

// Application holds the dependencies shared by the HTTP handlers, helpers and
// middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Catalog *catalog.Manager
	DB      *fooddb.Client
	Tokens  *auth.TokenIssuer
	// DefaultGoals are given to new accounts.
	DefaultGoals nutrition.Goals
}
