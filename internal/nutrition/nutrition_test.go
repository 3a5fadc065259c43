package nutrition

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestAge(t *testing.T) {
	today := date(t, "2024-06-15")

	tests := []struct {
		name  string
		birth string
		want  int
	}{
		{"birthday already passed", "1990-01-10", 34},
		{"birthday today", "1990-06-15", 34},
		{"birthday tomorrow", "1990-06-16", 33},
		{"later month", "1990-12-01", 33},
		{"leap day birth", "2000-02-29", 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(date(t, tt.birth), today))
		})
	}

	assert.Equal(t, 0, Age(time.Time{}, today))
}

func TestParseBirthDate(t *testing.T) {
	d, err := ParseBirthDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = ParseBirthDate(" 1985-03-02 ")
	require.NoError(t, err)
	assert.Equal(t, 1985, d.Year())

	_, err = ParseBirthDate("02/03/1985")
	assert.Error(t, err)
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 1648.75, BMR(SexMale, 70, 175, 30), 1e-9)
	assert.InDelta(t, 10*60+6.25*165-5*40-161, BMR(SexFemale, 60, 165, 40), 1e-9)

	zero := []struct {
		sex            string
		weight, height float64
		age            int
	}{
		{"", 70, 175, 30},
		{SexMale, 0, 175, 30},
		{SexMale, 70, -1, 30},
		{SexMale, 70, 175, 0},
	}
	for _, z := range zero {
		assert.Zero(t, BMR(z.sex, z.weight, z.height, z.age))
	}
}

func TestActivityFactor(t *testing.T) {
	assert.Equal(t, 1.55, ActivityFactor(ActivityModerate))
	assert.Equal(t, 1.9, ActivityFactor(ActivityExtraActive))
	assert.Equal(t, 1.2, ActivityFactor("couch"))
	assert.Len(t, ActivityLevels(), 5)
	assert.True(t, IsActivityLevel(ActivityLight))
	assert.False(t, IsActivityLevel("unknown"))
}

func TestBMI(t *testing.T) {
	assert.InDelta(t, 22.857, BMI(70, 175), 0.001)
	assert.Zero(t, BMI(70, 0))
	assert.Equal(t, "normal", BMICategory(BMI(70, 175)))
	assert.Equal(t, "underweight", BMICategory(17))
	assert.Equal(t, "obese", BMICategory(31))
	assert.Equal(t, "", BMICategory(0))
}

func TestDeriveGoals(t *testing.T) {
	today := date(t, "2024-06-15")

	t.Run("incomplete profile falls back to defaults", func(t *testing.T) {
		g := DeriveGoals(Body{Sex: SexFemale, ActivityLevel: ActivitySedentary}, today)
		assert.Equal(t, Goals{Calories: 2000, ProteinGrams: 100, CarbsGrams: 250, FatGrams: 67}, g)
	})

	t.Run("complete profile", func(t *testing.T) {
		b := Body{
			Sex:           SexMale,
			BirthDate:     date(t, "1994-01-01"),
			HeightCm:      175,
			WeightKg:      70,
			ActivityLevel: ActivityModerate,
		}
		tdee := 1648.75 * 1.55
		g := DeriveGoals(b, today)
		assert.Equal(t, math.Round(tdee), g.Calories)
		assert.Equal(t, math.Round(tdee*0.2/4), g.ProteinGrams)
		assert.Equal(t, math.Round(tdee*0.5/4), g.CarbsGrams)
		assert.Equal(t, math.Round(tdee*0.3/9), g.FatGrams)
	})
}

func TestComputeMacroShares(t *testing.T) {
	s := ComputeMacroShares(DefaultGoals())
	assert.Equal(t, 20.0, s.ProteinPercent)
	assert.Equal(t, 50.0, s.CarbsPercent)
	assert.InDelta(t, 30.15, s.FatPercent, 0.051)

	assert.Equal(t, MacroShares{}, ComputeMacroShares(Goals{}))
}

func TestComputeMetrics(t *testing.T) {
	b := Body{Sex: SexMale, BirthDate: date(t, "1994-01-01"), HeightCm: 175, WeightKg: 70, ActivityLevel: ActivitySedentary}
	m := ComputeMetrics(b, date(t, "2024-06-15"))
	assert.Equal(t, 30, m.Age)
	assert.Equal(t, 22.9, m.BMI)
	assert.Equal(t, "normal", m.BMICategory)
	assert.Equal(t, 1649.0, m.BMR)
	bmr := BMR(SexMale, 70, 175, 30)
	assert.Equal(t, math.Round(bmr*ActivityFactor(ActivitySedentary)), m.TDEE)
}

func TestParseMicronutrient(t *testing.T) {
	m := ParseMicronutrient("Vitamin C", "10mg (11% DV)")
	assert.True(t, m.Numeric)
	assert.Equal(t, 10.0, m.Quantity)
	assert.Equal(t, "mg", m.Unit)
	assert.Equal(t, "(11% DV)", m.Annotation)
	assert.Equal(t, "5.0mg (11% DV)", m.Scaled(0.5))
	assert.Equal(t, "10.0mg (11% DV)", m.String())

	m = ParseMicronutrient("Omega-3", "2.3g")
	assert.Equal(t, "g", m.Unit)
	assert.Empty(t, m.Annotation)
	assert.Equal(t, "4.6g", m.Scaled(2))

	m = ParseMicronutrient("Vitamin C", "10 mg (11% DV)")
	assert.Equal(t, "mg", m.Unit)
	assert.Equal(t, "(11% DV)", m.Annotation)
	assert.Equal(t, "5.0 mg (11% DV)", m.Scaled(0.5))

	m = ParseMicronutrient("Vitamin C", "10mg  (11% DV)")
	assert.Equal(t, "(11% DV)", m.Annotation)
	assert.Equal(t, "20.0mg  (11% DV)", m.Scaled(2))

	m = ParseMicronutrient("Note", "traces")
	assert.False(t, m.Numeric)
	assert.Equal(t, "traces", m.Scaled(3))
}

func banana() Food {
	return Food{
		ID:           2,
		Name:         "Banana",
		ServingGrams: 118,
		Calories:     105,
		Protein:      1.3,
		Carbs:        27,
		Fat:          0.4,
		Micronutrients: []Micronutrient{
			ParseMicronutrient("Potassium", "422mg (9% DV)"),
		},
	}
}

func TestScale(t *testing.T) {
	p := Scale(banana(), 59)
	assert.InDelta(t, 52.5, p.Calories, 1e-9)
	assert.InDelta(t, 0.65, p.Protein, 1e-9)
	assert.InDelta(t, 13.5, p.Carbs, 1e-9)
	assert.Equal(t, 59.0, p.EnteredGrams)
	assert.Equal(t, "211.0mg (9% DV)", p.Micronutrients["Potassium"])
}

func TestScaleIsReproducibleFromReference(t *testing.T) {
	chicken := Food{Name: "Chicken", ServingGrams: 100, Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}

	half := Scale(chicken, 50)
	assert.InDelta(t, 82.5, half.Calories, 1e-9)

	back := Scale(chicken, 100)
	assert.InDelta(t, chicken.Calories, back.Calories, 1e-9)
	assert.InDelta(t, chicken.Protein, back.Protein, 1e-9)
	assert.InDelta(t, chicken.Fat, back.Fat, 1e-9)
}

func TestScaleZeroFallback(t *testing.T) {
	for _, grams := range []float64{0, -10} {
		p := Scale(banana(), grams)
		assert.Zero(t, p.Calories)
		assert.Zero(t, p.Protein)
		assert.Zero(t, p.Carbs)
		assert.Zero(t, p.Fat)
		assert.Empty(t, p.Micronutrients)
		assert.Equal(t, grams, p.EnteredGrams)
	}

	p := Scale(banana(), math.NaN())
	assert.Zero(t, p.EnteredGrams)

	noRef := banana()
	noRef.ServingGrams = 0
	p = Scale(noRef, 100)
	assert.Zero(t, p.Calories)
	assert.Equal(t, 100.0, p.EnteredGrams)
}
