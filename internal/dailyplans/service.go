package dailyplans

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/foods"
	"github.com/fdg312/diet-planner/internal/mealtypes"
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrInvalidGrams     = errors.New("grams must be a positive number")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrFoodNotFound     = errors.New("food not found")
	ErrMealTypeNotFound = errors.New("meal type not found")
	ErrTooManyEntries   = errors.New("too many entries in meal")
)

// Service owns the per-date plan documents of a profile.
type Service struct {
	profiles   *profiles.Service
	plans      storage.DailyPlansStorage
	catalog    *foods.Catalog
	maxEntries int
	newID      func() string
}

func NewService(profileService *profiles.Service, plans storage.DailyPlansStorage, catalog *foods.Catalog, maxEntries int) *Service {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Service{
		profiles:   profileService,
		plans:      plans,
		catalog:    catalog,
		maxEntries: maxEntries,
		newID:      uuid.NewString,
	}
}

// ResolveDate validates a YYYY-MM-DD date; "today" and "" mean the current day.
func (s *Service) ResolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" || strings.EqualFold(date, "today") {
		return s.profiles.Today().Format(nutrition.DateLayout), nil
	}
	if _, err := time.Parse(nutrition.DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

// Get returns the reconciled plan for a date. A missing document is an empty plan.
func (s *Service) Get(ctx context.Context, handle, date string) (*PlanView, error) {
	doc, plan, saved, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}
	return buildView(doc, plan, saved), nil
}

// Save replaces the whole plan. Unconfigured meal keys are dropped and every
// entry is re-derived from the catalog.
func (s *Service) Save(ctx context.Context, handle, date string, req SavePlanRequest) (*PlanView, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	meals := make(map[string][]storage.LoggedFood, len(doc.MealTypes))
	seen := make(map[string]bool)
	for _, mt := range doc.MealTypes {
		inputs := req.Meals[mt.Key]
		if len(inputs) > s.maxEntries {
			return nil, ErrTooManyEntries
		}
		entries := make([]storage.LoggedFood, 0, len(inputs))
		for _, in := range inputs {
			entry, err := s.buildEntry(in.FoodID, in.Grams)
			if err != nil {
				return nil, err
			}
			// ids must stay unique across the whole plan
			if id := strings.TrimSpace(in.UniqueID); id != "" && !seen[id] {
				entry.UniqueID = id
			}
			seen[entry.UniqueID] = true
			entries = append(entries, entry)
		}
		meals[mt.Key] = entries
	}
	for key := range req.Meals {
		if mealtypes.Find(doc.MealTypes, key) < 0 {
			log.Printf("INFO dailyplans: dropping unconfigured meal key=%s handle=%s date=%s", key, doc.Handle, plan.Date)
		}
	}

	plan.Meals = meals
	return s.persist(ctx, doc, plan)
}

// AddEntry scales a catalog food and appends it to a meal.
func (s *Service) AddEntry(ctx context.Context, handle, date string, req AddEntryRequest) (*EntryResponse, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.MealKey)
	if mealtypes.Find(doc.MealTypes, key) < 0 {
		return nil, ErrMealTypeNotFound
	}
	if len(plan.Meals[key]) >= s.maxEntries {
		return nil, ErrTooManyEntries
	}

	entry, err := s.buildEntry(req.FoodID, req.Grams)
	if err != nil {
		return nil, err
	}
	plan.Meals[key] = append(plan.Meals[key], entry)

	view, err := s.persist(ctx, doc, plan)
	if err != nil {
		return nil, err
	}
	return &EntryResponse{Entry: entry, Plan: view}, nil
}

// RemoveEntry deletes the entry with uniqueID from whichever meal holds it.
func (s *Service) RemoveEntry(ctx context.Context, handle, date, uniqueID string) (*PlanView, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	key, idx := findEntry(plan.Meals, uniqueID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}
	entries := plan.Meals[key]
	plan.Meals[key] = append(entries[:idx], entries[idx+1:]...)

	return s.persist(ctx, doc, plan)
}

// UpdateEntryGrams rescales an entry from its catalog reference, keeping its unique id.
func (s *Service) UpdateEntryGrams(ctx context.Context, handle, date, uniqueID string, grams float64) (*EntryResponse, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	key, idx := findEntry(plan.Meals, uniqueID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}

	entry, err := s.buildEntry(plan.Meals[key][idx].FoodID, grams)
	if err != nil {
		return nil, err
	}
	entry.UniqueID = uniqueID
	plan.Meals[key][idx] = entry

	view, err := s.persist(ctx, doc, plan)
	if err != nil {
		return nil, err
	}
	return &EntryResponse{Entry: entry, Plan: view}, nil
}

// MoveEntry moves an entry to the end of another meal.
func (s *Service) MoveEntry(ctx context.Context, handle, date, uniqueID, targetKey string) (*EntryResponse, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	targetKey = strings.TrimSpace(targetKey)
	if mealtypes.Find(doc.MealTypes, targetKey) < 0 {
		return nil, ErrMealTypeNotFound
	}

	key, idx := findEntry(plan.Meals, uniqueID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}
	entry := plan.Meals[key][idx]

	if key != targetKey {
		if len(plan.Meals[targetKey]) >= s.maxEntries {
			return nil, ErrTooManyEntries
		}
		entries := plan.Meals[key]
		plan.Meals[key] = append(entries[:idx], entries[idx+1:]...)
		plan.Meals[targetKey] = append(plan.Meals[targetKey], entry)
	}

	view, err := s.persist(ctx, doc, plan)
	if err != nil {
		return nil, err
	}
	return &EntryResponse{Entry: entry, Plan: view}, nil
}

// Summary compares the day's totals with the profile goals.
func (s *Service) Summary(ctx context.Context, handle, date string) (*Summary, error) {
	doc, plan, _, err := s.load(ctx, handle, date)
	if err != nil {
		return nil, err
	}

	day := SumMeals(plan.Meals)
	summary := &Summary{
		Handle:   doc.Handle,
		Date:     plan.Date,
		Calories: progress(doc.Goals.Calories, day.Calories),
		Protein:  progress(doc.Goals.ProteinGrams, day.Protein),
		Carbs:    progress(doc.Goals.CarbsGrams, day.Carbs),
		Fat:      progress(doc.Goals.FatGrams, day.Fat),
		Meals:    make([]MealCalories, 0, len(doc.MealTypes)),
	}
	for _, mt := range doc.MealTypes {
		entries := plan.Meals[mt.Key]
		summary.Entries += len(entries)
		summary.Meals = append(summary.Meals, MealCalories{
			Key:      mt.Key,
			Name:     mt.Name,
			Calories: round1(SumEntries(entries).Calories),
		})
	}
	return summary, nil
}

func progress(goal, consumed float64) MacroProgress {
	p := MacroProgress{
		Goal:      goal,
		Consumed:  round1(consumed),
		Remaining: round1(goal - consumed),
	}
	if goal > 0 {
		p.Percent = round1(consumed / goal * 100)
	}
	return p
}

// load returns the profile document and the reconciled plan for date.
func (s *Service) load(ctx context.Context, handle, date string) (storage.ProfileDocument, storage.DailyPlan, bool, error) {
	date, err := s.ResolveDate(date)
	if err != nil {
		return storage.ProfileDocument{}, storage.DailyPlan{}, false, err
	}

	doc, _, err := s.profiles.Load(ctx, handle)
	if err != nil {
		return storage.ProfileDocument{}, storage.DailyPlan{}, false, err
	}

	plan, saved, err := s.plans.GetDailyPlan(ctx, doc.Handle, date)
	if err != nil {
		return storage.ProfileDocument{}, storage.DailyPlan{}, false, fmt.Errorf("load plan %s/%s: %w", doc.Handle, date, err)
	}
	if !saved {
		plan = storage.DailyPlan{Handle: doc.Handle, Date: date}
	}

	if saved && s.rehydrate(plan.Meals) {
		plan, err = s.plans.SaveDailyPlan(ctx, plan)
		if err != nil {
			return storage.ProfileDocument{}, storage.DailyPlan{}, false, fmt.Errorf("repair plan %s/%s: %w", doc.Handle, date, err)
		}
		log.Printf("INFO dailyplans: repaired legacy entries handle=%s date=%s", doc.Handle, date)
	}

	plan.Meals = mealtypes.Reconcile(plan.Meals, doc.MealTypes)
	return doc, plan, saved, nil
}

// rehydrate rescales entries stored with grams but no nutrients and assigns
// missing unique ids. It reports whether anything changed.
func (s *Service) rehydrate(meals map[string][]storage.LoggedFood) bool {
	changed := false
	for key, entries := range meals {
		for i, e := range entries {
			if e.UniqueID == "" {
				e.UniqueID = s.newID()
				changed = true
			}
			if e.EnteredGrams > 0 && e.Calories == 0 && e.Protein == 0 && e.Carbs == 0 && e.Fat == 0 {
				if food, err := s.catalog.Get(e.FoodID); err == nil {
					rescaled := toEntry(food, nutrition.Scale(food, e.EnteredGrams))
					rescaled.UniqueID = e.UniqueID
					e = rescaled
					changed = true
				}
			}
			entries[i] = e
		}
		meals[key] = entries
	}
	return changed
}

func (s *Service) persist(ctx context.Context, doc storage.ProfileDocument, plan storage.DailyPlan) (*PlanView, error) {
	saved, err := s.plans.SaveDailyPlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("save plan %s/%s: %w", plan.Handle, plan.Date, err)
	}
	saved.Meals = mealtypes.Reconcile(saved.Meals, doc.MealTypes)
	return buildView(doc, saved, true), nil
}

func (s *Service) buildEntry(foodID int, grams float64) (storage.LoggedFood, error) {
	if grams <= 0 || math.IsNaN(grams) || math.IsInf(grams, 0) {
		return storage.LoggedFood{}, ErrInvalidGrams
	}
	food, err := s.catalog.Get(foodID)
	if err != nil {
		return storage.LoggedFood{}, ErrFoodNotFound
	}

	entry := toEntry(food, nutrition.Scale(food, grams))
	entry.UniqueID = s.newID()
	return entry, nil
}

func toEntry(food nutrition.Food, p nutrition.Portion) storage.LoggedFood {
	return storage.LoggedFood{
		FoodID:         food.ID,
		Name:           food.Name,
		EnteredGrams:   p.EnteredGrams,
		Calories:       p.Calories,
		Protein:        p.Protein,
		Carbs:          p.Carbs,
		Fat:            p.Fat,
		Micronutrients: p.Micronutrients,
	}
}

func findEntry(meals map[string][]storage.LoggedFood, uniqueID string) (string, int) {
	for key, entries := range meals {
		for i, e := range entries {
			if e.UniqueID == uniqueID {
				return key, i
			}
		}
	}
	return "", -1
}

func buildView(doc storage.ProfileDocument, plan storage.DailyPlan, saved bool) *PlanView {
	view := &PlanView{
		Handle: doc.Handle,
		Date:   plan.Date,
		Saved:  saved,
		Meals:  make([]MealView, 0, len(doc.MealTypes)),
	}
	if saved && !plan.UpdatedAt.IsZero() {
		updated := plan.UpdatedAt
		view.UpdatedAt = &updated
	}

	var day Totals
	for _, mt := range doc.MealTypes {
		entries := plan.Meals[mt.Key]
		if entries == nil {
			entries = []storage.LoggedFood{}
		}
		totals := SumEntries(entries)
		day = day.add(totals)
		view.Meals = append(view.Meals, MealView{
			Key:       mt.Key,
			Name:      mt.Name,
			Order:     mt.Order,
			IsDefault: mt.IsDefault,
			Entries:   entries,
			Totals:    totals.rounded(),
		})
	}
	view.Totals = day.rounded()
	return view
}
