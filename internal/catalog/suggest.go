package catalog

import (
	"cmp"
	"slices"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

const (
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
)

// Suggestion is a food name that fuzzily matches a partial query.
type Suggestion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// foldedNames adapts a list of case-folded names to fuzzy.Source.
type foldedNames []string

func (n foldedNames) String(i int) string { return n[i] }
func (n foldedNames) Len() int            { return len(n) }

func foldName(name string) string {
	return cases.Fold().String(name)
}

// Suggest returns up to limit distinct food names matching term, best match first.
// Names that differ only by case are reported once.
func (manager *Manager) Suggest(term string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	limit = min(limit, MaxSuggestionLimit)

	pattern := foldName(term)
	if pattern == "" {
		return []Suggestion{}
	}

	manager.mu.RLock()
	records := manager.records
	manager.mu.RUnlock()

	names := make(foldedNames, len(records))
	for i, rec := range records {
		names[i] = foldName(rec.Name)
	}

	matches := fuzzy.FindFrom(pattern, names)
	// fuzzy reverses equal scores; restore table order so the first spelling wins.
	slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	seen := make(map[string]bool, limit)
	suggestions := make([]Suggestion, 0, min(limit, len(matches)))
	for _, match := range matches {
		if seen[match.Str] {
			continue
		}
		seen[match.Str] = true
		suggestions = append(suggestions, Suggestion{Name: records[match.Index].Name, Score: match.Score})
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions
}
