package catalog

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"macrotrack.app/internal/nutrition"
)

// NewStaticManager returns a Manager serving records without a backing source.
func NewStaticManager(records []nutrition.FoodRecord) *Manager {
	return &Manager{
		source:       "static",
		isLocalFile:  true,
		records:      slices.Clone(records),
		lastUpdated:  time.Now(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdownChan: make(chan struct{}),
	}
}

// MockAddFood appends a record with calories in kcal. A negative value stands for a
// missing cell.
func (manager *Manager) MockAddFood(name string, calories, protein float64) {
	toValue := func(v float64) float64 {
		if v < 0 {
			return math.NaN()
		}
		return v
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.records = append(slices.Clone(manager.records), nutrition.FoodRecord{
		Name:     name,
		Calories: toValue(calories),
		Protein:  toValue(protein),
	})
}
