package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
)

var (
	ErrInvalidSex           = errors.New("sex must be male or female")
	ErrInvalidActivityLevel = errors.New("unknown activity level")
	ErrInvalidBirthDate     = errors.New("birth date must be YYYY-MM-DD and not in the future")
	ErrInvalidMeasurement   = errors.New("height and weight must be non-negative numbers")
	ErrInvalidGoals         = errors.New("goals must be non-negative numbers and not all zero")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.Storage
	now     func() time.Time
}

// NewService создаёт новый сервис; now задаёт текущий календарный день
func NewService(st storage.Storage, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{storage: st, now: now}
}

// Today returns the service clock.
func (s *Service) Today() time.Time {
	return s.now()
}

// Load returns the profile document for handle, initializing and persisting
// defaults when the document is missing or incomplete. created reports
// whether the document did not exist before.
func (s *Service) Load(ctx context.Context, rawHandle string) (storage.ProfileDocument, bool, error) {
	handle, err := NormalizeHandle(rawHandle)
	if err != nil {
		return storage.ProfileDocument{}, false, err
	}

	doc, ok, err := s.storage.GetProfileDocument(ctx, handle)
	if err != nil {
		return storage.ProfileDocument{}, false, fmt.Errorf("load profile %s: %w", handle, err)
	}

	created := !ok
	changed := created
	if created {
		doc = storage.ProfileDocument{Handle: handle, Profile: defaultProfile()}
	}

	if doc.Profile.Sex == "" {
		doc.Profile.Sex = nutrition.SexFemale
		changed = true
	}
	if doc.Profile.ActivityLevel == "" {
		doc.Profile.ActivityLevel = nutrition.ActivitySedentary
		changed = true
	}
	if goalsEmpty(doc.Goals) {
		doc.Goals = goalsToStorage(nutrition.DeriveGoals(BodyOf(doc.Profile), s.now()))
		changed = true
	}
	if len(doc.MealTypes) == 0 {
		doc.MealTypes = DefaultMealTypes()
		changed = true
	}

	if changed {
		doc, err = s.storage.UpsertProfileDocument(ctx, doc)
		if err != nil {
			return storage.ProfileDocument{}, false, fmt.Errorf("initialize profile %s: %w", handle, err)
		}
		if created {
			log.Printf("INFO profiles: initialized defaults handle=%s", handle)
		} else {
			log.Printf("INFO profiles: filled missing defaults handle=%s", handle)
		}
	}

	SortMealTypes(doc.MealTypes)
	return doc, created, nil
}

// Save persists an already loaded document.
func (s *Service) Save(ctx context.Context, doc storage.ProfileDocument) (storage.ProfileDocument, error) {
	saved, err := s.storage.UpsertProfileDocument(ctx, doc)
	if err != nil {
		return storage.ProfileDocument{}, fmt.Errorf("save profile %s: %w", doc.Handle, err)
	}
	SortMealTypes(saved.MealTypes)
	return saved, nil
}

// UpdateProfile replaces the personal data of the profile.
func (s *Service) UpdateProfile(ctx context.Context, handle string, req UpdateProfileRequest) (storage.ProfileDocument, error) {
	profile, err := s.validateProfile(req)
	if err != nil {
		return storage.ProfileDocument{}, err
	}

	doc, _, err := s.Load(ctx, handle)
	if err != nil {
		return storage.ProfileDocument{}, err
	}

	doc.Profile = profile
	return s.Save(ctx, doc)
}

func (s *Service) validateProfile(req UpdateProfileRequest) (storage.UserProfile, error) {
	sex := strings.ToLower(strings.TrimSpace(req.Sex))
	if sex == "" {
		sex = nutrition.SexFemale
	}
	if sex != nutrition.SexMale && sex != nutrition.SexFemale {
		return storage.UserProfile{}, ErrInvalidSex
	}

	level := strings.TrimSpace(req.ActivityLevel)
	if level == "" {
		level = nutrition.ActivitySedentary
	}
	if !nutrition.IsActivityLevel(level) {
		return storage.UserProfile{}, ErrInvalidActivityLevel
	}

	if !validMeasure(req.HeightCm) || !validMeasure(req.WeightKg) {
		return storage.UserProfile{}, ErrInvalidMeasurement
	}

	birthRaw := strings.TrimSpace(req.BirthDate)
	birth, err := nutrition.ParseBirthDate(birthRaw)
	if err != nil || birth.After(s.now()) {
		return storage.UserProfile{}, ErrInvalidBirthDate
	}

	return storage.UserProfile{
		Name:          strings.TrimSpace(req.Name),
		BirthDate:     birthRaw,
		Sex:           sex,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: level,
	}, nil
}

// UpdateGoals replaces the daily targets.
func (s *Service) UpdateGoals(ctx context.Context, handle string, goals storage.NutritionGoals) (storage.ProfileDocument, error) {
	for _, v := range []float64{goals.Calories, goals.ProteinGrams, goals.CarbsGrams, goals.FatGrams} {
		if !validMeasure(v) {
			return storage.ProfileDocument{}, ErrInvalidGoals
		}
	}
	if goalsEmpty(goals) {
		return storage.ProfileDocument{}, ErrInvalidGoals
	}

	doc, _, err := s.Load(ctx, handle)
	if err != nil {
		return storage.ProfileDocument{}, err
	}

	doc.Goals = goals
	return s.Save(ctx, doc)
}

// SuggestedGoals runs the goal deriver on the stored profile without saving.
func (s *Service) SuggestedGoals(ctx context.Context, handle string) (nutrition.Goals, error) {
	doc, _, err := s.Load(ctx, handle)
	if err != nil {
		return nutrition.Goals{}, err
	}
	return nutrition.DeriveGoals(BodyOf(doc.Profile), s.now()), nil
}

// Metrics computes age, BMI, BMR and TDEE plus the macro split of the goals.
func (s *Service) Metrics(ctx context.Context, handle string) (*MetricsResponse, error) {
	doc, _, err := s.Load(ctx, handle)
	if err != nil {
		return nil, err
	}

	today := s.now()
	return &MetricsResponse{
		Handle:      doc.Handle,
		Date:        today.Format(nutrition.DateLayout),
		Metrics:     nutrition.ComputeMetrics(BodyOf(doc.Profile), today),
		MacroShares: nutrition.ComputeMacroShares(GoalsOf(doc.Goals)),
	}, nil
}

func validMeasure(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
