package profiles

import (
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
)

// IdentifyRequest — запрос для POST /v1/profiles/identify
type IdentifyRequest struct {
	Handle string `json:"handle"`
}

// UpdateProfileRequest — запрос для PUT /v1/profiles/{handle}/profile
type UpdateProfileRequest struct {
	Name          string  `json:"name"`
	BirthDate     string  `json:"birth_date"`
	Sex           string  `json:"sex"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
}

// ProfileResponse — profile document as returned by the API
type ProfileResponse struct {
	Handle    string                 `json:"handle"`
	Created   bool                   `json:"created"`
	Profile   storage.UserProfile    `json:"profile"`
	Goals     storage.NutritionGoals `json:"goals"`
	MealTypes []storage.MealType     `json:"meal_types"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SuggestedGoalsResponse — ответ для GET /v1/profiles/{handle}/goals/suggested
type SuggestedGoalsResponse struct {
	Handle string          `json:"handle"`
	Goals  nutrition.Goals `json:"goals"`
}

// MetricsResponse — ответ для GET /v1/profiles/{handle}/metrics
type MetricsResponse struct {
	Handle      string                `json:"handle"`
	Date        string                `json:"date"`
	Metrics     nutrition.Metrics     `json:"metrics"`
	MacroShares nutrition.MacroShares `json:"macro_shares"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toResponse(doc storage.ProfileDocument, created bool) ProfileResponse {
	return ProfileResponse{
		Handle:    doc.Handle,
		Created:   created,
		Profile:   doc.Profile,
		Goals:     doc.Goals,
		MealTypes: doc.MealTypes,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
