package appconf

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"macrotrack.app/internal/nutrition"
)

// CatalogFile is the optional YAML description of a nutrition table that does not use
// the Fineli headers, plus the goals new accounts start with.
type CatalogFile struct {
	Columns struct {
		Name       string `yaml:"name"`
		Energy     string `yaml:"energy"`
		Protein    string `yaml:"protein"`
		EnergyUnit string `yaml:"energy_unit"`
		Sheet      string `yaml:"sheet"`
	} `yaml:"columns"`
	DefaultGoals *nutrition.Goals `yaml:"default_goals"`
}

// LoadCatalogFile reads and validates a catalog YAML file.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	switch nutrition.EnergyUnit(cf.Columns.EnergyUnit) {
	case "", nutrition.Kilojoules, nutrition.Kilocalories:
	default:
		return nil, fmt.Errorf("catalog file %s: energy_unit must be kJ or kcal, got %q", path, cf.Columns.EnergyUnit)
	}
	if cf.DefaultGoals != nil {
		if fieldErrors := cf.DefaultGoals.Validate(); len(fieldErrors) > 0 {
			return nil, errors.New("catalog file " + path + ": default goals must not be negative")
		}
	}

	return &cf, nil
}

// TableColumns merges the configured headers over nutrition.DefaultColumns. A nil
// receiver yields the defaults.
func (cf *CatalogFile) TableColumns() nutrition.Columns {
	cols := nutrition.DefaultColumns()
	if cf == nil {
		return cols
	}
	if cf.Columns.Name != "" {
		cols.Name = cf.Columns.Name
	}
	if cf.Columns.Energy != "" {
		cols.Energy = cf.Columns.Energy
	}
	if cf.Columns.Protein != "" {
		cols.Protein = cf.Columns.Protein
	}
	if cf.Columns.EnergyUnit != "" {
		cols.EnergyUnit = nutrition.EnergyUnit(cf.Columns.EnergyUnit)
	}
	cols.Sheet = cf.Columns.Sheet
	return cols
}

// Goals returns the configured default goals, or nutrition.DefaultGoals.
func (cf *CatalogFile) Goals() nutrition.Goals {
	if cf == nil || cf.DefaultGoals == nil {
		return nutrition.DefaultGoals()
	}
	return *cf.DefaultGoals
}
