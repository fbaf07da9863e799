// Package fooddb stores accounts, daily goals and the food diary in SQLite.
package fooddb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"macrotrack.app/internal/appconf"
	"macrotrack.app/internal/logging"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var ddl string

var (
	ErrUserExists = errors.New("username or email already registered")
	ErrNotFound   = errors.New("record not found")
)

// Client is the entry point for all persistence.
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database and applies the embedded schema.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "fooddb"))

	db, err := createDB(config)
	if err != nil {
		return nil, err
	}
	if config.verbose {
		logging.LogOperation(logger, "database_ready", slog.String("path", config.DBPath))
	}

	return &Client{config: config, DB: db, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && !config.inMemory() {
		return nil, fmt.Errorf("test database must use in-memory storage, got %q", config.DBPath)
	}

	db, err := sql.Open("sqlite", dataSourceName(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if config.inMemory() {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx := context.Background()
	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

// dataSourceName turns on foreign keys for every pooled connection.
func dataSourceName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}

// TableCounts returns the number of rows in each table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"users", "food_entries"} {
		var n int
		// table names come from the fixed list above
		if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// timestampLayout has a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
