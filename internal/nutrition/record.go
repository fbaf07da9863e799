// Package nutrition normalizes tabular food composition data and ranks foods by how much
// protein they provide per kilocalorie.
package nutrition

import "math"

// KJToKcal converts kilojoules to kilocalories.
const KJToKcal = 0.239006

// FoodRecord is a normalized row of the nutrition table. Missing or non-numeric values are
// stored as NaN.
type FoodRecord struct {
	Name     string  `json:"Name"`
	Calories float64 `json:"Calories"` // kcal per 100 g
	Protein  float64 `json:"Protein"`  // g per 100 g
}

// HasMissingValue reports whether calories or protein could not be coerced to a number.
func (r FoodRecord) HasMissingValue() bool {
	return !isFinite(r.Calories) || !isFinite(r.Protein)
}

// RankedRecord is a FoodRecord that passed the protein ratio filter, rounded for display.
type RankedRecord struct {
	Name              string  `json:"Name"`
	Calories          float64 `json:"Calories"`
	Protein           float64 `json:"Protein"`
	ProteinToCalories float64 `json:"Protein_to_Calories"`
}

func KilojoulesToKilocalories(kj float64) float64 {
	return kj * KJToKcal
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
