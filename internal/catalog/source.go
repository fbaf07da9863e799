package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/nutrition"
)

const downloadTimeout = 60 * time.Second

func isLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

// sourceFormat picks the table format from the path, ignoring any URL query string.
func sourceFormat(source string, isLocalFile bool) (nutrition.Format, error) {
	if isLocalFile {
		return nutrition.FormatFromPath(source)
	}
	u, err := url.Parse(source)
	if err != nil {
		return 0, fmt.Errorf("invalid nutrition table URL: %w", err)
	}
	return nutrition.FormatFromPath(u.Path)
}

func (manager *Manager) rawTableData(ctx context.Context) ([]byte, error) {
	if manager.isLocalFile {
		b, err := os.ReadFile(manager.source)
		if err != nil {
			return nil, &nutrition.DataFormatError{Reason: "cannot read " + manager.source, Err: err}
		}
		return b, nil
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manager.source, nil)
	if err != nil {
		return nil, fmt.Errorf("error building download request: %w", err)
	}

	client := manager.config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading nutrition table: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, manager.logger, "close_nutrition_table_download")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading nutrition table: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading nutrition table download: %w", err)
	}
	return b, nil
}

func (manager *Manager) loadTable(ctx context.Context) ([]nutrition.FoodRecord, error) {
	b, err := manager.rawTableData(ctx)
	if err != nil {
		return nil, err
	}
	return nutrition.LoadFoodTable(bytes.NewReader(b), manager.format, manager.config.Columns)
}
