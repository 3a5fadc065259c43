package nutrition

import (
	"math"
	"time"
)

const (
	DefaultCalories     = 2000
	DefaultProteinGrams = 100
	DefaultCarbsGrams   = 250
	DefaultFatGrams     = 67

	proteinShare = 0.20
	carbsShare   = 0.50
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Body holds the profile inputs the calculators need.
type Body struct {
	Sex           string
	BirthDate     time.Time
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
}

// Goals are daily energy and macro targets.
type Goals struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatGrams     float64 `json:"fat_grams"`
}

// DefaultGoals are used whenever the profile is too incomplete for a BMR.
func DefaultGoals() Goals {
	return Goals{
		Calories:     DefaultCalories,
		ProteinGrams: DefaultProteinGrams,
		CarbsGrams:   DefaultCarbsGrams,
		FatGrams:     DefaultFatGrams,
	}
}

// DeriveGoals computes targets from age, BMR and activity level.
// Each field falls back to its own default when it computes to zero.
func DeriveGoals(b Body, today time.Time) Goals {
	bmr := BMR(b.Sex, b.WeightKg, b.HeightCm, Age(b.BirthDate, today))

	tdee := float64(DefaultCalories)
	if bmr > 0 {
		tdee = bmr * ActivityFactor(b.ActivityLevel)
	}

	return Goals{
		Calories:     orDefault(math.Round(tdee), DefaultCalories),
		ProteinGrams: orDefault(math.Round(tdee*proteinShare/kcalPerGramProtein), DefaultProteinGrams),
		CarbsGrams:   orDefault(math.Round(tdee*carbsShare/kcalPerGramCarbs), DefaultCarbsGrams),
		FatGrams:     orDefault(math.Round(tdee*fatShare/kcalPerGramFat), DefaultFatGrams),
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}

// MacroShares is the percentage of the calorie goal covered by each macro goal.
type MacroShares struct {
	ProteinPercent float64 `json:"protein_percent"`
	CarbsPercent   float64 `json:"carbs_percent"`
	FatPercent     float64 `json:"fat_percent"`
}

func ComputeMacroShares(g Goals) MacroShares {
	if g.Calories <= 0 {
		return MacroShares{}
	}
	return MacroShares{
		ProteinPercent: round1(g.ProteinGrams * kcalPerGramProtein / g.Calories * 100),
		CarbsPercent:   round1(g.CarbsGrams * kcalPerGramCarbs / g.Calories * 100),
		FatPercent:     round1(g.FatGrams * kcalPerGramFat / g.Calories * 100),
	}
}

// Metrics summarises the derived body figures for a profile.
type Metrics struct {
	Age         int     `json:"age"`
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmi_category,omitempty"`
	BMR         float64 `json:"bmr"`
	TDEE        float64 `json:"tdee"`
}

func ComputeMetrics(b Body, today time.Time) Metrics {
	age := Age(b.BirthDate, today)
	bmr := BMR(b.Sex, b.WeightKg, b.HeightCm, age)
	bmi := BMI(b.WeightKg, b.HeightCm)

	return Metrics{
		Age:         age,
		BMI:         round1(bmi),
		BMICategory: BMICategory(bmi),
		BMR:         math.Round(bmr),
		TDEE:        math.Round(TDEE(bmr, b.ActivityLevel)),
	}
}
