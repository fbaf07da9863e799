package nutrition

import (
	"errors"
	"fmt"
)

// Macros is an energy and macronutrient amount, either per 100 g or for a logged portion.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Fat:      m.Fat + o.Fat,
		Carbs:    m.Carbs + o.Carbs,
	}
}

func (m Macros) rounded() Macros {
	return Macros{
		Calories: round2(m.Calories),
		Protein:  round2(m.Protein),
		Fat:      round2(m.Fat),
		Carbs:    round2(m.Carbs),
	}
}

var ErrInvalidPortion = errors.New("portion amount must be a positive number of grams")

// ScalePer100g converts per-100 g values into the amounts eaten in a portion of grams.
// The result is rounded to two decimals.
func ScalePer100g(per100g Macros, grams float64) (Macros, error) {
	if !isFinite(grams) || grams <= 0 {
		return Macros{}, ErrInvalidPortion
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"calories", per100g.Calories},
		{"protein", per100g.Protein},
		{"fat", per100g.Fat},
		{"carbs", per100g.Carbs},
	} {
		if !isFinite(f.value) || f.value < 0 {
			return Macros{}, fmt.Errorf("%s per 100 g must be a non-negative number", f.name)
		}
	}

	factor := grams / 100
	return Macros{
		Calories: per100g.Calories * factor,
		Protein:  per100g.Protein * factor,
		Fat:      per100g.Fat * factor,
		Carbs:    per100g.Carbs * factor,
	}.rounded(), nil
}

// Goals are a user's daily targets, in kcal and grams.
type Goals struct {
	Calories int `json:"calories" yaml:"calories"`
	Protein  int `json:"protein" yaml:"protein"`
	Fat      int `json:"fat" yaml:"fat"`
	Carbs    int `json:"carbs" yaml:"carbs"`
}

func DefaultGoals() Goals {
	return Goals{Calories: 2000, Protein: 150, Fat: 70, Carbs: 250}
}

func (g Goals) Validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	check := func(field string, v int) {
		if v < 0 {
			fieldErrors[field] = append(fieldErrors[field], field+" goal must not be negative")
		}
	}
	check("calories", g.Calories)
	check("protein", g.Protein)
	check("fat", g.Fat)
	check("carbs", g.Carbs)
	return fieldErrors
}

func (g Goals) asMacros() Macros {
	return Macros{
		Calories: float64(g.Calories),
		Protein:  float64(g.Protein),
		Fat:      float64(g.Fat),
		Carbs:    float64(g.Carbs),
	}
}

// DailySummary compares a day's intake with the goals. Remaining goes negative once a
// goal is exceeded.
type DailySummary struct {
	Goals     Goals  `json:"goals"`
	Totals    Macros `json:"totals"`
	Remaining Macros `json:"remaining"`
}

func Summarize(goals Goals, entries []Macros) DailySummary {
	var totals Macros
	for _, e := range entries {
		totals = totals.Add(e)
	}

	target := goals.asMacros()
	return DailySummary{
		Goals:  goals,
		Totals: totals.rounded(),
		Remaining: Macros{
			Calories: target.Calories - totals.Calories,
			Protein:  target.Protein - totals.Protein,
			Fat:      target.Fat - totals.Fat,
			Carbs:    target.Carbs - totals.Carbs,
		}.rounded(),
	}
}
