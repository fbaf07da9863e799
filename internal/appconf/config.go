package appconf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all the configuration settings for the Application. Values are read from
// command-line flags in cmd/api; the flag defaults come from the environment so the
// service can also be configured twelve-factor style.
type Config struct {
	Port            int
	Env             Environment
	ApiKeys         []string
	RateLimit       int // requests per second per API key
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	CatalogSource   string
	CatalogRefresh  time.Duration
	CatalogFile     string // optional YAML file with column mapping and default goals
	LogLevel        string
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads variables from a .env file when one is present. A missing file is not
// an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks that the configuration can be used to start the server.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.ApiKeys) == 0 {
		return errors.New("at least one API key must be configured")
	}
	if c.CatalogSource == "" {
		return errors.New("a nutrition table source is required")
	}
	if c.Env == Production && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("a non-default JWT secret is required in production")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.CatalogRefresh < 0 {
		return errors.New("catalog refresh interval must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// DefaultJWTSecret is only suitable for development.
const DefaultJWTSecret = "macrotrack-dev-secret"

// SplitAPIKeys turns a comma separated flag value into a trimmed key list.
func SplitAPIKeys(flagValue string) []string {
	var keys []string
	for _, k := range strings.Split(flagValue, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
