package mealtypes

import "github.com/fdg312/diet-planner/internal/storage"

// CreateMealTypeRequest — запрос для POST /v1/profiles/{handle}/meal-types
type CreateMealTypeRequest struct {
	Name string `json:"name"`
}

// UpdateMealTypeRequest — запрос для PATCH /v1/profiles/{handle}/meal-types/{key}
type UpdateMealTypeRequest struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// MealTypesResponse — список типов приёма пищи
type MealTypesResponse struct {
	MealTypes []storage.MealType `json:"meal_types"`
}

// CreateMealTypeResponse — ответ на создание
type CreateMealTypeResponse struct {
	MealType  storage.MealType   `json:"meal_type"`
	MealTypes []storage.MealType `json:"meal_types"`
}

// DeleteResult — результат удаления
type DeleteResult struct {
	Key       string             `json:"key"`
	Date      string             `json:"date"`
	Outcome   DeleteOutcome      `json:"outcome"`
	MealTypes []storage.MealType `json:"meal_types"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
