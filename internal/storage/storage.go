package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// UserProfile — personal data used by the calculators
type UserProfile struct {
	Name          string  `json:"name"`
	BirthDate     string  `json:"birth_date"` // YYYY-MM-DD or ""
	Sex           string  `json:"sex"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
}

// NutritionGoals — daily targets
type NutritionGoals struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatGrams     float64 `json:"fat_grams"`
}

// MealType — a user-defined meal section
type MealType struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	IsDefault bool   `json:"is_default"`
}

// ProfileDocument is the profile/{handle} document.
type ProfileDocument struct {
	Handle    string         `json:"handle"`
	Profile   UserProfile    `json:"profile"`
	Goals     NutritionGoals `json:"goals"`
	MealTypes []MealType     `json:"meal_types"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LoggedFood — a catalog food scaled to an entered quantity
type LoggedFood struct {
	FoodID         int               `json:"food_id"`
	Name           string            `json:"name"`
	EnteredGrams   float64           `json:"entered_grams"`
	Calories       float64           `json:"calories"`
	Protein        float64           `json:"protein"`
	Carbs          float64           `json:"carbs"`
	Fat            float64           `json:"fat"`
	Micronutrients map[string]string `json:"micronutrients"`
	UniqueID       string            `json:"unique_id"`
}

// DailyPlan is the profile/{handle}/dailyPlan/{date} document.
type DailyPlan struct {
	Handle    string                  `json:"handle"`
	Date      string                  `json:"date"` // YYYY-MM-DD
	Meals     map[string][]LoggedFood `json:"meals"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Storage — profile documents
type Storage interface {
	// GetProfileDocument returns the document and whether it exists
	GetProfileDocument(ctx context.Context, handle string) (ProfileDocument, bool, error)

	// UpsertProfileDocument creates or replaces the document
	UpsertProfileDocument(ctx context.Context, doc ProfileDocument) (ProfileDocument, error)

	// Close закрывает соединение (для Postgres)
	Close() error
}

// DailyPlansStorage — per-date plan documents
type DailyPlansStorage interface {
	// GetDailyPlan returns the plan and whether it exists
	GetDailyPlan(ctx context.Context, handle, date string) (DailyPlan, bool, error)

	// ListDailyPlans returns existing plans in [from, to] ordered by date
	ListDailyPlans(ctx context.Context, handle, from, to string) ([]DailyPlan, error)

	// SaveDailyPlan replaces the plan document
	SaveDailyPlan(ctx context.Context, plan DailyPlan) (DailyPlan, error)

	// DeleteMealField removes one meal key from an existing plan.
	// Returns ErrNotFound when no plan document exists for the date.
	DeleteMealField(ctx context.Context, handle, date, mealKey string) error
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional inline data)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов профиля с пагинацией
	ListReports(ctx context.Context, handle string, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	Handle    string
	Format    string  // "pdf" or "csv"
	FromDate  string  // YYYY-MM-DD
	ToDate    string  // YYYY-MM-DD
	ObjectKey *string // S3 object key (nil when stored inline)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // inline content when no blob store is configured
}
