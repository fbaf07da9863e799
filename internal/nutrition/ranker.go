package nutrition

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

type SortKey string

const (
	SortNone                SortKey = ""
	SortByProteinToCalories SortKey = "protein_to_calories"
	SortByName              SortKey = "name"
)

// DefaultMinProteinRatio is used when the caller does not supply a threshold.
const DefaultMinProteinRatio = 0.1

// ParseSortKey accepts the recognized sort keys. Anything else is rejected instead of
// silently falling back to table order.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(s)); key {
	case SortNone, SortByProteinToCalories, SortByName:
		return key, nil
	default:
		return SortNone, &InvalidParameterError{
			Field:  "sort_by",
			Value:  s,
			Reason: "must be protein_to_calories or name",
		}
	}
}

// Query holds the caller-supplied ranking parameters.
type Query struct {
	MinProteinRatio float64
	SearchTerm      string
	SortBy          SortKey
}

// ParseQuery builds a Query from raw request parameters. An empty minRatio selects
// DefaultMinProteinRatio.
func ParseQuery(minRatio, sortBy, searchTerm string) (Query, error) {
	q := Query{
		MinProteinRatio: DefaultMinProteinRatio,
		SearchTerm:      strings.TrimSpace(searchTerm),
	}

	if s := strings.TrimSpace(minRatio); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Query{}, &InvalidParameterError{Field: "min_protein_ratio", Value: minRatio, Reason: "not a number"}
		}
		q.MinProteinRatio = v
	}

	key, err := ParseSortKey(sortBy)
	if err != nil {
		return Query{}, err
	}
	q.SortBy = key

	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func (q Query) Validate() error {
	if math.IsNaN(q.MinProteinRatio) || math.IsInf(q.MinProteinRatio, 0) || q.MinProteinRatio < 0 {
		return &InvalidParameterError{
			Field:  "min_protein_ratio",
			Value:  strconv.FormatFloat(q.MinProteinRatio, 'g', -1, 64),
			Reason: "must be a non-negative number",
		}
	}
	if _, err := ParseSortKey(string(q.SortBy)); err != nil {
		return err
	}
	return nil
}

// Rank returns the records whose protein-to-calorie ratio is at least
// q.MinProteinRatio. Rows with missing values or a non-finite ratio are dropped, the
// numeric fields are rounded to two decimals, the optional search term is matched as a
// case-insensitive substring of the name, and the result is ordered by q.SortBy. Sorting
// is stable, so ties keep table order. records is not modified.
func Rank(records []FoodRecord, q Query) ([]RankedRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	matches := nameMatcher(q.SearchTerm)

	ranked := make([]RankedRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasMissingValue() {
			continue
		}

		ratio := rec.Protein / rec.Calories
		if !isFinite(ratio) || ratio < q.MinProteinRatio {
			continue
		}

		if !matches(rec.Name) {
			continue
		}

		// Rounding can pull a ratio just above the threshold below it.
		rounded := round2(ratio)
		if rounded < q.MinProteinRatio {
			continue
		}

		ranked = append(ranked, RankedRecord{
			Name:              rec.Name,
			Calories:          round2(rec.Calories),
			Protein:           round2(rec.Protein),
			ProteinToCalories: rounded,
		})
	}

	switch q.SortBy {
	case SortByProteinToCalories:
		slices.SortStableFunc(ranked, func(a, b RankedRecord) int {
			return cmp.Compare(b.ProteinToCalories, a.ProteinToCalories)
		})
	case SortByName:
		slices.SortStableFunc(ranked, func(a, b RankedRecord) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return ranked, nil
}

// nameMatcher returns a case-insensitive substring predicate. An empty term matches
// everything. Case folding handles non-ASCII names such as "Äyriäiset".
func nameMatcher(term string) func(string) bool {
	if term == "" {
		return func(string) bool { return true }
	}
	folder := cases.Fold()
	needle := folder.String(term)
	return func(name string) bool {
		return strings.Contains(folder.String(name), needle)
	}
}
