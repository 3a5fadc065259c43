package nutrition

import "math"

// Food is a static catalog entry at its reference serving.
type Food struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	ServingDescription string          `json:"serving_description"`
	ServingGrams       float64         `json:"serving_grams"`
	Calories           float64         `json:"calories"`
	Protein            float64         `json:"protein"`
	Carbs              float64         `json:"carbs"`
	Fat                float64         `json:"fat"`
	Micronutrients     []Micronutrient `json:"micronutrients"`
}

// Portion is a food scaled to an entered gram quantity.
type Portion struct {
	EnteredGrams   float64           `json:"entered_grams"`
	Calories       float64           `json:"calories"`
	Protein        float64           `json:"protein"`
	Carbs          float64           `json:"carbs"`
	Fat            float64           `json:"fat"`
	Micronutrients map[string]string `json:"micronutrients"`
}

// Scale multiplies every nutrient of food by grams/ServingGrams.
// A missing reference mass or grams <= 0 yields zero nutrients while still
// recording grams (NaN and Inf are recorded as 0).
func Scale(food Food, grams float64) Portion {
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		grams = 0
	}

	p := Portion{
		EnteredGrams:   grams,
		Micronutrients: map[string]string{},
	}
	if food.ServingGrams <= 0 || grams <= 0 {
		return p
	}

	factor := grams / food.ServingGrams
	p.Calories = food.Calories * factor
	p.Protein = food.Protein * factor
	p.Carbs = food.Carbs * factor
	p.Fat = food.Fat * factor

	for _, m := range food.Micronutrients {
		p.Micronutrients[m.Name] = m.Scaled(factor)
	}
	return p
}
