package mealtypes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
)

var (
	ErrEmptyMealName     = errors.New("meal type name cannot be empty")
	ErrDuplicateMealName = errors.New("meal type name already exists")
	ErrMealTypeNotFound  = errors.New("meal type not found")
	ErrDefaultMealType   = errors.New("default meal types cannot be deleted")
	ErrTooManyMealTypes  = errors.New("too many meal types")
	ErrInvalidOrder      = errors.New("order must be positive")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
)

// DeleteOutcome describes what happened to the plan document on delete.
type DeleteOutcome string

const (
	OutcomeUpdated       DeleteOutcome = "updated"
	OutcomeAlreadyAbsent DeleteOutcome = "already_absent"
)

// Service manages the meal-type configuration of a profile.
type Service struct {
	profiles *profiles.Service
	plans    storage.DailyPlansStorage
	maxTypes int
	now      func() time.Time
}

func NewService(profileService *profiles.Service, plans storage.DailyPlansStorage, maxTypes int) *Service {
	if maxTypes <= 0 {
		maxTypes = 20
	}
	return &Service{
		profiles: profileService,
		plans:    plans,
		maxTypes: maxTypes,
		now:      profileService.Today,
	}
}

// List returns the configured meal types in display order.
func (s *Service) List(ctx context.Context, handle string) ([]storage.MealType, error) {
	doc, _, err := s.profiles.Load(ctx, handle)
	if err != nil {
		return nil, err
	}
	return doc.MealTypes, nil
}

// Add appends a custom meal type after the existing ones.
func (s *Service) Add(ctx context.Context, handle, name string) (storage.MealType, []storage.MealType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.MealType{}, nil, ErrEmptyMealName
	}

	doc, _, err := s.profiles.Load(ctx, handle)
	if err != nil {
		return storage.MealType{}, nil, err
	}
	if nameTaken(doc.MealTypes, name, "") {
		return storage.MealType{}, nil, ErrDuplicateMealName
	}
	if len(doc.MealTypes) >= s.maxTypes {
		return storage.MealType{}, nil, ErrTooManyMealTypes
	}

	mt := storage.MealType{
		Key:   NewKey(name, s.now()),
		Name:  name,
		Order: NextOrder(doc.MealTypes),
	}
	for Find(doc.MealTypes, mt.Key) >= 0 {
		mt.Key += "_"
	}
	doc.MealTypes = append(doc.MealTypes, mt)

	saved, err := s.profiles.Save(ctx, doc)
	if err != nil {
		return storage.MealType{}, nil, err
	}
	return mt, saved.MealTypes, nil
}

// Update renames and/or reorders a meal type. The key never changes.
func (s *Service) Update(ctx context.Context, handle, key string, req UpdateMealTypeRequest) ([]storage.MealType, error) {
	doc, _, err := s.profiles.Load(ctx, handle)
	if err != nil {
		return nil, err
	}

	idx := Find(doc.MealTypes, key)
	if idx < 0 {
		return nil, ErrMealTypeNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyMealName
		}
		if nameTaken(doc.MealTypes, name, key) {
			return nil, ErrDuplicateMealName
		}
		doc.MealTypes[idx].Name = name
	}
	if req.Order != nil {
		if *req.Order <= 0 {
			return nil, ErrInvalidOrder
		}
		doc.MealTypes[idx].Order = *req.Order
	}

	saved, err := s.profiles.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	return saved.MealTypes, nil
}

// Delete removes a custom meal type: the configuration is persisted first,
// then the meal field is dropped from the plan document of date (today when empty).
func (s *Service) Delete(ctx context.Context, handle, key, date string) (*DeleteResult, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	doc, _, err := s.profiles.Load(ctx, handle)
	if err != nil {
		return nil, err
	}

	idx := Find(doc.MealTypes, key)
	if idx < 0 {
		return nil, ErrMealTypeNotFound
	}
	if doc.MealTypes[idx].IsDefault {
		return nil, ErrDefaultMealType
	}

	doc.MealTypes = append(doc.MealTypes[:idx], doc.MealTypes[idx+1:]...)
	saved, err := s.profiles.Save(ctx, doc)
	if err != nil {
		return nil, err
	}

	outcome := OutcomeUpdated
	if err := s.plans.DeleteMealField(ctx, saved.Handle, date, key); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("delete meal field %s: %w", key, err)
		}
		log.Printf("INFO mealtypes: no plan for handle=%s date=%s, nothing to remove", saved.Handle, date)
		outcome = OutcomeAlreadyAbsent
	}

	return &DeleteResult{
		Key:       key,
		Date:      date,
		Outcome:   outcome,
		MealTypes: saved.MealTypes,
	}, nil
}

func (s *Service) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().Format(nutrition.DateLayout), nil
	}
	if _, err := time.Parse(nutrition.DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}
