package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
)

type DailyPlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[string]storage.DailyPlan // key: "handle:date"
}

func NewDailyPlansMemoryStorage() *DailyPlansMemoryStorage {
	return &DailyPlansMemoryStorage{
		plans: make(map[string]storage.DailyPlan),
	}
}

func planKey(handle, date string) string {
	return fmt.Sprintf("%s:%s", handle, date)
}

func (s *DailyPlansMemoryStorage) GetDailyPlan(ctx context.Context, handle, date string) (storage.DailyPlan, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planKey(handle, date)]
	if !ok {
		return storage.DailyPlan{}, false, nil
	}
	return copyPlan(plan), true, nil
}

func (s *DailyPlansMemoryStorage) ListDailyPlans(ctx context.Context, handle, from, to string) ([]storage.DailyPlan, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.DailyPlan{}
	for _, p := range s.plans {
		if p.Handle == handle && p.Date >= from && p.Date <= to {
			out = append(out, copyPlan(p))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *DailyPlansMemoryStorage) SaveDailyPlan(ctx context.Context, plan storage.DailyPlan) (storage.DailyPlan, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey(plan.Handle, plan.Date)
	now := time.Now().UTC()
	if existing, ok := s.plans[key]; ok {
		plan.CreatedAt = existing.CreatedAt
	} else {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	s.plans[key] = copyPlan(plan)
	return copyPlan(plan), nil
}

func (s *DailyPlansMemoryStorage) DeleteMealField(ctx context.Context, handle, date, mealKey string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey(handle, date)
	plan, ok := s.plans[key]
	if !ok {
		return storage.ErrNotFound
	}

	delete(plan.Meals, mealKey)
	plan.UpdatedAt = time.Now().UTC()
	s.plans[key] = plan
	return nil
}

func copyPlan(p storage.DailyPlan) storage.DailyPlan {
	out := p
	out.Meals = make(map[string][]storage.LoggedFood, len(p.Meals))
	for k, entries := range p.Meals {
		cp := make([]storage.LoggedFood, len(entries))
		for i, e := range entries {
			cp[i] = e
			if e.Micronutrients != nil {
				cp[i].Micronutrients = make(map[string]string, len(e.Micronutrients))
				for name, v := range e.Micronutrients {
					cp[i].Micronutrients[name] = v
				}
			}
		}
		out.Meals[k] = cp
	}
	return out
}
