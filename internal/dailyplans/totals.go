package dailyplans

import (
	"math"

	"github.com/fdg312/diet-planner/internal/storage"
)

// Totals are summed macros for a meal or a whole day.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (t Totals) add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
	}
}

func (t Totals) rounded() Totals {
	return Totals{
		Calories: round1(t.Calories),
		Protein:  round1(t.Protein),
		Carbs:    round1(t.Carbs),
		Fat:      round1(t.Fat),
	}
}

// SumEntries adds up the macros of entries.
func SumEntries(entries []storage.LoggedFood) Totals {
	var t Totals
	for _, e := range entries {
		t = t.add(Totals{Calories: e.Calories, Protein: e.Protein, Carbs: e.Carbs, Fat: e.Fat})
	}
	return t
}

// SumMeals adds up every meal of a plan.
func SumMeals(meals map[string][]storage.LoggedFood) Totals {
	var t Totals
	for _, entries := range meals {
		t = t.add(SumEntries(entries))
	}
	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
