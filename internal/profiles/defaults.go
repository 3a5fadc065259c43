package profiles

import (
	"sort"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
)

// DefaultMealTypes returns the four sections every new profile starts with.
func DefaultMealTypes() []storage.MealType {
	return []storage.MealType{
		{Key: "breakfast", Name: "Breakfast", Order: 1, IsDefault: true},
		{Key: "lunch", Name: "Lunch", Order: 2, IsDefault: true},
		{Key: "dinner", Name: "Dinner", Order: 3, IsDefault: true},
		{Key: "snacks", Name: "Snacks", Order: 4, IsDefault: true},
	}
}

// SortMealTypes orders meal types for display: ascending order, then key.
func SortMealTypes(types []storage.MealType) {
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].Order != types[j].Order {
			return types[i].Order < types[j].Order
		}
		return types[i].Key < types[j].Key
	})
}

func defaultProfile() storage.UserProfile {
	return storage.UserProfile{
		Sex:           nutrition.SexFemale,
		ActivityLevel: nutrition.ActivitySedentary,
	}
}

// BodyOf converts a stored profile into calculator inputs.
// An unparseable birth date is treated as absent.
func BodyOf(p storage.UserProfile) nutrition.Body {
	birth, _ := nutrition.ParseBirthDate(p.BirthDate)
	return nutrition.Body{
		Sex:           p.Sex,
		BirthDate:     birth,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
	}
}

func goalsToStorage(g nutrition.Goals) storage.NutritionGoals {
	return storage.NutritionGoals{
		Calories:     g.Calories,
		ProteinGrams: g.ProteinGrams,
		CarbsGrams:   g.CarbsGrams,
		FatGrams:     g.FatGrams,
	}
}

// GoalsOf converts stored goals into the calculator type.
func GoalsOf(g storage.NutritionGoals) nutrition.Goals {
	return nutrition.Goals{
		Calories:     g.Calories,
		ProteinGrams: g.ProteinGrams,
		CarbsGrams:   g.CarbsGrams,
		FatGrams:     g.FatGrams,
	}
}

func goalsEmpty(g storage.NutritionGoals) bool {
	return g.Calories == 0 && g.ProteinGrams == 0 && g.CarbsGrams == 0 && g.FatGrams == 0
}
