package nutrition

import "math"

const (
	SexMale   = "male"
	SexFemale = "female"
)

// ActivityLevel is one entry of the fixed activity enumeration.
type ActivityLevel struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

const (
	ActivitySedentary   = "sedentary"
	ActivityLight       = "light"
	ActivityModerate    = "moderate"
	ActivityActive      = "active"
	ActivityExtraActive = "extra_active"

	defaultActivityFactor = 1.2
)

var activityLevels = []ActivityLevel{
	{Key: ActivitySedentary, Label: "Sedentary (little or no exercise)", Multiplier: 1.2},
	{Key: ActivityLight, Label: "Lightly active (1-3 days/week)", Multiplier: 1.375},
	{Key: ActivityModerate, Label: "Moderately active (3-5 days/week)", Multiplier: 1.55},
	{Key: ActivityActive, Label: "Very active (6-7 days/week)", Multiplier: 1.725},
	{Key: ActivityExtraActive, Label: "Extra active (physical job or twice a day)", Multiplier: 1.9},
}

// ActivityLevels returns the enumeration in display order.
func ActivityLevels() []ActivityLevel {
	out := make([]ActivityLevel, len(activityLevels))
	copy(out, activityLevels)
	return out
}

// IsActivityLevel reports whether key names a known level.
func IsActivityLevel(key string) bool {
	for _, l := range activityLevels {
		if l.Key == key {
			return true
		}
	}
	return false
}

// ActivityFactor returns the multiplier for level, 1.2 when unrecognized.
func ActivityFactor(level string) float64 {
	for _, l := range activityLevels {
		if l.Key == level {
			return l.Multiplier
		}
	}
	return defaultActivityFactor
}

// BMR applies Mifflin-St Jeor. Any missing or non-positive input yields 0.
func BMR(sex string, weightKg, heightCm float64, age int) float64 {
	if sex == "" || weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE multiplies bmr by the activity factor. Non-positive bmr yields 0.
func TDEE(bmr float64, level string) float64 {
	if bmr <= 0 {
		return 0
	}
	return bmr * ActivityFactor(level)
}

// BMI returns weight / height(m)^2, or 0 when either input is missing.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

// BMICategory classifies a BMI value using the WHO adult bands.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
