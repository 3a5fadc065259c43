package dailyplans

import (
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
)

// MealView is one configured meal section with its entries.
type MealView struct {
	Key       string               `json:"key"`
	Name      string               `json:"name"`
	Order     int                  `json:"order"`
	IsDefault bool                 `json:"is_default"`
	Entries   []storage.LoggedFood `json:"entries"`
	Totals    Totals               `json:"totals"`
}

// PlanView — ответ для GET /v1/profiles/{handle}/plans/{date}
type PlanView struct {
	Handle    string     `json:"handle"`
	Date      string     `json:"date"`
	Saved     bool       `json:"saved"`
	Meals     []MealView `json:"meals"`
	Totals    Totals     `json:"totals"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EntryInput is a food reference plus quantity; nutrients are always derived server-side.
type EntryInput struct {
	FoodID   int     `json:"food_id"`
	Grams    float64 `json:"grams"`
	UniqueID string  `json:"unique_id,omitempty"`
}

// SavePlanRequest — запрос для PUT /v1/profiles/{handle}/plans/{date}
type SavePlanRequest struct {
	Meals map[string][]EntryInput `json:"meals"`
}

// AddEntryRequest — запрос для POST .../entries
type AddEntryRequest struct {
	MealKey string  `json:"meal_key"`
	FoodID  int     `json:"food_id"`
	Grams   float64 `json:"grams"`
}

// UpdateEntryRequest — запрос для PATCH .../entries/{entryID}
type UpdateEntryRequest struct {
	Grams float64 `json:"grams"`
}

// MoveEntryRequest — запрос для POST .../entries/{entryID}/move
type MoveEntryRequest struct {
	MealKey string `json:"meal_key"`
}

// EntryResponse returns the touched entry with the updated plan.
type EntryResponse struct {
	Entry storage.LoggedFood `json:"entry"`
	Plan  *PlanView          `json:"plan"`
}

// MacroProgress compares consumption with a goal.
type MacroProgress struct {
	Goal      float64 `json:"goal"`
	Consumed  float64 `json:"consumed"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// MealCalories is one row of the per-meal breakdown.
type MealCalories struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// Summary — ответ для GET .../plans/{date}/summary
type Summary struct {
	Handle   string         `json:"handle"`
	Date     string         `json:"date"`
	Calories MacroProgress  `json:"calories"`
	Protein  MacroProgress  `json:"protein"`
	Carbs    MacroProgress  `json:"carbs"`
	Fat      MacroProgress  `json:"fat"`
	Meals    []MealCalories `json:"meals"`
	Entries  int            `json:"entries"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
