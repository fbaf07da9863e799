// Package catalog keeps the nutrition table in memory and answers ranking and
// suggestion queries against it.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/nutrition"
)

// Manager owns the current snapshot of the nutrition table. Readers get the snapshot
// that was current when they asked; a reload swaps it atomically and a failed reload
// leaves it untouched.
type Manager struct {
	source       string
	isLocalFile  bool
	format       nutrition.Format
	config       Config
	logger       *slog.Logger
	records      []nutrition.FoodRecord
	lastUpdated  time.Time
	reloads      int
	mu           sync.RWMutex
	reloadMu     sync.Mutex
	shutdownChan chan struct{}
	cancelReload context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Stats describes the loaded table.
type Stats struct {
	Source        string    `json:"source"`
	IsLocalFile   bool      `json:"isLocalFile"`
	Format        string    `json:"format"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Records       int       `json:"records"`
	MissingValues int       `json:"missingValues"`
	Reloads       int       `json:"reloads"`
}

// InitManager loads the table from config.Source and starts the refresh loop when
// config.RefreshInterval is positive.
func InitManager(ctx context.Context, config Config) (*Manager, error) {
	if config.Source == "" {
		return nil, errors.New("nutrition table source is empty")
	}

	isLocalFile := isLocalSource(config.Source)
	format, err := sourceFormat(config.Source, isLocalFile)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	manager := &Manager{
		source:       config.Source,
		isLocalFile:  isLocalFile,
		format:       format,
		config:       config,
		logger:       logger.With(slog.String("component", "catalog")),
		shutdownChan: make(chan struct{}),
	}

	start := time.Now()
	records, err := manager.loadTable(ctx)
	if err != nil {
		return nil, err
	}
	manager.setRecords(records)
	logging.LogOperation(manager.logger, "nutrition_table_loaded",
		slog.String("source", manager.source),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(start)))

	if config.refreshEnabled() {
		refreshCtx, cancel := context.WithCancel(context.Background())
		manager.cancelReload = cancel
		manager.wg.Add(1)
		go manager.refreshPeriodically(refreshCtx)
	}

	return manager, nil
}

// Shutdown stops the refresh loop and waits for it to exit.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		if manager.cancelReload != nil {
			manager.cancelReload()
		}
		manager.wg.Wait()
	})
}

// Records returns a copy of the current table.
func (manager *Manager) Records() []nutrition.FoodRecord {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return slices.Clone(manager.records)
}

// HighProtein ranks the current table with q.
func (manager *Manager) HighProtein(q nutrition.Query) ([]nutrition.RankedRecord, error) {
	manager.mu.RLock()
	records := manager.records
	manager.mu.RUnlock()

	// Rank never writes to records, and a reload replaces the slice instead of mutating it.
	return nutrition.Rank(records, q)
}

// FindFood returns the first record whose name equals name, ignoring case.
func (manager *Manager) FindFood(name string) (nutrition.FoodRecord, bool) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	key := foldName(name)
	for _, rec := range manager.records {
		if foldName(rec.Name) == key {
			return rec, true
		}
	}
	return nutrition.FoodRecord{}, false
}

func (manager *Manager) Stats() Stats {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	missing := 0
	for _, rec := range manager.records {
		if rec.HasMissingValue() {
			missing++
		}
	}

	return Stats{
		Source:        manager.source,
		IsLocalFile:   manager.isLocalFile,
		Format:        manager.format.String(),
		LastUpdated:   manager.lastUpdated,
		Records:       len(manager.records),
		MissingValues: missing,
		Reloads:       manager.reloads,
	}
}

// Reload reads the source again. On error the previous table stays in place.
func (manager *Manager) Reload(ctx context.Context) error {
	manager.reloadMu.Lock()
	defer manager.reloadMu.Unlock()

	start := time.Now()
	records, err := manager.loadTable(ctx)
	if err != nil {
		logging.LogError(manager.logger, "failed to reload nutrition table, keeping previous data", err,
			slog.String("source", manager.source))
		return err
	}

	manager.setRecords(records)
	manager.mu.Lock()
	manager.reloads++
	manager.mu.Unlock()

	logging.LogOperation(manager.logger, "nutrition_table_reloaded",
		slog.String("source", manager.source),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// refreshPeriodically reloads on every tick. ctx is cancelled by Shutdown so an
// in-flight download does not delay it.
func (manager *Manager) refreshPeriodically(ctx context.Context) {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = manager.Reload(ctx)
		case <-manager.shutdownChan:
			manager.logger.Info("stopping nutrition table refresh")
			return
		}
	}
}

func (manager *Manager) setRecords(records []nutrition.FoodRecord) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.records = records
	manager.lastUpdated = time.Now()
}
