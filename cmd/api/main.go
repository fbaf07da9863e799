package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"macrotrack.app/fooddb"
	"macrotrack.app/internal/app"
	"macrotrack.app/internal/appconf"
	"macrotrack.app/internal/auth"
	"macrotrack.app/internal/catalog"
	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/restapi"
	"macrotrack.app/internal/webui"
)

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

// parseFlags reads the server configuration. Every flag defaults to its environment
// variable so the binary can be configured either way.
func parseFlags(fs *flag.FlagSet, args []string) (appconf.Config, error) {
	var cfg appconf.Config
	var env, apiKeys string

	fs.IntVar(&cfg.Port, "port", appconf.GetEnvAsInt("PORT", 4000), "API server port")
	fs.StringVar(&env, "env", appconf.GetEnv("APP_ENV", "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", appconf.GetEnv("API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&cfg.RateLimit, "rate-limit", appconf.GetEnvAsInt("RATE_LIMIT", 100), "Requests per second per API key (negative disables limiting)")
	fs.StringVar(&cfg.DBPath, "db", appconf.GetEnv("DB_PATH", "macrotrack.db"), "SQLite database path")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", appconf.GetEnv("JWT_SECRET", appconf.DefaultJWTSecret), "Secret used to sign login tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", appconf.GetEnvAsDuration("TOKEN_TTL", 24*time.Hour), "Lifetime of login tokens")
	fs.StringVar(&cfg.CatalogSource, "catalog", appconf.GetEnv("CATALOG_SOURCE", "app/data/resultset.xlsx"), "Path or URL of the nutrition table")
	fs.DurationVar(&cfg.CatalogRefresh, "catalog-refresh", appconf.GetEnvAsDuration("CATALOG_REFRESH", 0), "How often to reload the nutrition table (0 disables)")
	fs.StringVar(&cfg.CatalogFile, "catalog-config", appconf.GetEnv("CATALOG_CONFIG", ""), "Optional YAML file with column names and default goals")
	fs.StringVar(&cfg.LogLevel, "log-level", appconf.GetEnv("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", appconf.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second), "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return appconf.Config{}, err
	}

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.ApiKeys = appconf.SplitAPIKeys(apiKeys)

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}

// buildApplication wires the catalog, the diary database and the token issuer.
func buildApplication(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, error) {
	var catalogFile *appconf.CatalogFile
	if cfg.CatalogFile != "" {
		var err error
		catalogFile, err = appconf.LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	catalogManager, err := catalog.InitManager(ctx, catalog.Config{
		Source:          cfg.CatalogSource,
		Columns:         catalogFile.TableColumns(),
		RefreshInterval: cfg.CatalogRefresh,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("loading nutrition table: %w", err)
	}

	db, err := fooddb.NewClient(fooddb.NewConfig(cfg.DBPath, cfg.Env, cfg.Env == appconf.Development), logger)
	if err != nil {
		catalogManager.Shutdown()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &app.Application{
		Config:       cfg,
		Logger:       logger,
		Catalog:      catalogManager,
		DB:           db,
		Tokens:       auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		DefaultGoals: catalogFile.Goals(),
	}, nil
}

// newHandler mounts the API and, outside production, the debug pages.
func newHandler(application *app.Application) (http.Handler, *restapi.RestAPI) {
	api := restapi.NewRestAPI(application)

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	if application.Config.Env != appconf.Production {
		webUI := &webui.WebUI{Application: application}
		webUI.SetWebUIRoutes(mux)
	}

	return api.WithMiddleware(mux), api
}

func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	application, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Catalog.Shutdown()
	defer logging.SafeCloseWithLogging(application.DB, logger, "database")

	handler, api := newHandler(application)
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
