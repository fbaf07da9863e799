package nutrition

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalePer100g(t *testing.T) {
	chicken := Macros{Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0}

	tests := []struct {
		name    string
		per100g Macros
		grams   float64
		want    Macros
		wantErr bool
	}{
		{"full portion", chicken, 100, chicken, false},
		{"half portion", chicken, 50, Macros{Calories: 82.5, Protein: 15.5, Fat: 1.8}, false},
		{"odd grams are rounded", chicken, 33, Macros{Calories: 54.45, Protein: 10.23, Fat: 1.19}, false},
		{"zero grams", chicken, 0, Macros{}, true},
		{"negative grams", chicken, -10, Macros{}, true},
		{"NaN grams", chicken, math.NaN(), Macros{}, true},
		{"negative nutrient", Macros{Calories: 100, Protein: -1}, 100, Macros{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScalePer100g(tt.per100g, tt.grams)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Calories, got.Calories, 1e-9)
			assert.InDelta(t, tt.want.Protein, got.Protein, 1e-9)
			assert.InDelta(t, tt.want.Fat, got.Fat, 1e-9)
			assert.InDelta(t, tt.want.Carbs, got.Carbs, 1e-9)
		})
	}

	_, err := ScalePer100g(chicken, 0)
	assert.True(t, errors.Is(err, ErrInvalidPortion))
}

func TestGoalsValidate(t *testing.T) {
	assert.Empty(t, DefaultGoals().Validate())
	assert.Empty(t, Goals{}.Validate(), "zero goals are allowed")

	fieldErrors := Goals{Calories: -1, Protein: 100, Fat: -5}.Validate()
	assert.Len(t, fieldErrors, 2)
	assert.Contains(t, fieldErrors, "calories")
	assert.Contains(t, fieldErrors, "fat")
}

func TestSummarize(t *testing.T) {
	goals := Goals{Calories: 2000, Protein: 150, Fat: 70, Carbs: 250}
	entries := []Macros{
		{Calories: 82.5, Protein: 15.5, Fat: 1.8, Carbs: 0},
		{Calories: 390.1, Protein: 13.2, Fat: 6.9, Carbs: 66.3},
		{Calories: 1700, Protein: 130, Fat: 70, Carbs: 150},
	}

	summary := Summarize(goals, entries)

	assert.Equal(t, goals, summary.Goals)
	assert.InDelta(t, 2172.6, summary.Totals.Calories, 1e-9)
	assert.InDelta(t, 158.7, summary.Totals.Protein, 1e-9)
	assert.InDelta(t, -172.6, summary.Remaining.Calories, 1e-9, "exceeded goals go negative")
	assert.InDelta(t, -8.7, summary.Remaining.Protein, 1e-9)
	assert.InDelta(t, -8.7, summary.Remaining.Fat, 1e-9)
	assert.InDelta(t, 33.7, summary.Remaining.Carbs, 1e-9)

	empty := Summarize(goals, nil)
	assert.Equal(t, Macros{}, empty.Totals)
	assert.Equal(t, goals.asMacros(), empty.Remaining)
}

func TestKilojoulesToKilocalories(t *testing.T) {
	assert.InDelta(t, 164.91414, KilojoulesToKilocalories(690), 1e-9)
	assert.True(t, math.IsNaN(KilojoulesToKilocalories(math.NaN())))
}
