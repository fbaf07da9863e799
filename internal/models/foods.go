package models

import "macrotrack.app/internal/nutrition"

// HighProteinData echoes the effective query next to the ranked foods.
type HighProteinData struct {
	MinProteinRatio float64                  `json:"minProteinRatio"`
	SortBy          string                   `json:"sortBy"`
	SearchTerm      string                   `json:"searchTerm"`
	List            []nutrition.RankedRecord `json:"list"`
}

func NewHighProteinData(q nutrition.Query, ranked []nutrition.RankedRecord) HighProteinData {
	if ranked == nil {
		ranked = []nutrition.RankedRecord{}
	}
	return HighProteinData{
		MinProteinRatio: q.MinProteinRatio,
		SortBy:          string(q.SortBy),
		SearchTerm:      q.SearchTerm,
		List:            ranked,
	}
}
