package dailyplans

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fdg312/diet-planner/internal/foods"
	"github.com/fdg312/diet-planner/internal/mealtypes"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bananaID  = 2
	chickenID = 3
	testDate  = "2024-06-15"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

type fixture struct {
	plans     *Service
	mealTypes *mealtypes.Service
	store     *memory.MemoryStorage
}

func newFixture(t *testing.T, maxEntries int) fixture {
	t.Helper()
	store := memory.New()
	profileService := profiles.NewService(store, fixedNow)
	svc := NewService(profileService, store.GetDailyPlansStorage(), foods.MustLoad(), maxEntries)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	return fixture{
		plans:     svc,
		mealTypes: mealtypes.NewService(profileService, store.GetDailyPlansStorage(), 20),
		store:     store,
	}
}

func TestGetEmptyPlan(t *testing.T) {
	f := newFixture(t, 0)

	view, err := f.plans.Get(context.Background(), "ana", "today")
	require.NoError(t, err)

	assert.Equal(t, testDate, view.Date)
	assert.False(t, view.Saved)
	require.Len(t, view.Meals, 4)
	for _, m := range view.Meals {
		assert.NotNil(t, m.Entries)
		assert.Empty(t, m.Entries)
	}
	assert.Equal(t, Totals{}, view.Totals)
}

func TestResolveDate(t *testing.T) {
	f := newFixture(t, 0)

	d, err := f.plans.ResolveDate("")
	require.NoError(t, err)
	assert.Equal(t, testDate, d)

	_, err = f.plans.ResolveDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddEntry(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	resp, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "breakfast", FoodID: bananaID, Grams: 59})
	require.NoError(t, err)

	assert.Equal(t, "id-1", resp.Entry.UniqueID)
	assert.Equal(t, "Banana", resp.Entry.Name)
	assert.InDelta(t, 52.5, resp.Entry.Calories, 1e-9)
	assert.Equal(t, "0.2mg (22% DV)", resp.Entry.Micronutrients["Vitamin B6"])
	assert.True(t, resp.Plan.Saved)
	assert.Equal(t, 52.5, resp.Plan.Totals.Calories)

	stored, ok, err := f.store.GetDailyPlansStorage().GetDailyPlan(ctx, "ana", testDate)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Meals["breakfast"], 1)
	assert.Len(t, stored.Meals, 4)

	t.Run("validation", func(t *testing.T) {
		_, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "breakfast", FoodID: bananaID, Grams: 0})
		assert.ErrorIs(t, err, ErrInvalidGrams)

		_, err = f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "breakfast", FoodID: 999, Grams: 10})
		assert.ErrorIs(t, err, ErrFoodNotFound)

		_, err = f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "brunch", FoodID: bananaID, Grams: 10})
		assert.ErrorIs(t, err, ErrMealTypeNotFound)

		view, err := f.plans.Get(ctx, "ana", testDate)
		require.NoError(t, err)
		assert.Len(t, view.Meals[0].Entries, 1, "failed validation must not change state")
	})
}

func TestAddEntryLimit(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "lunch", FoodID: chickenID, Grams: 100})
		require.NoError(t, err)
	}
	_, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "lunch", FoodID: chickenID, Grams: 100})
	assert.ErrorIs(t, err, ErrTooManyEntries)
}

func TestUpdateEntryGramsIsReproducible(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	added, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "dinner", FoodID: chickenID, Grams: 100})
	require.NoError(t, err)
	original := added.Entry

	half, err := f.plans.UpdateEntryGrams(ctx, "ana", testDate, original.UniqueID, 50)
	require.NoError(t, err)
	assert.InDelta(t, original.Calories/2, half.Entry.Calories, 1e-9)
	assert.Equal(t, original.UniqueID, half.Entry.UniqueID)

	back, err := f.plans.UpdateEntryGrams(ctx, "ana", testDate, original.UniqueID, 100)
	require.NoError(t, err)
	assert.InDelta(t, original.Calories, back.Entry.Calories, 1e-9)
	assert.InDelta(t, original.Protein, back.Entry.Protein, 1e-9)
	assert.Equal(t, original.Micronutrients, back.Entry.Micronutrients)

	_, err = f.plans.UpdateEntryGrams(ctx, "ana", testDate, original.UniqueID, -5)
	assert.ErrorIs(t, err, ErrInvalidGrams)

	_, err = f.plans.UpdateEntryGrams(ctx, "ana", testDate, "missing", 10)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRemoveAndMoveEntry(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	a, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "breakfast", FoodID: bananaID, Grams: 118})
	require.NoError(t, err)
	b, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "breakfast", FoodID: bananaID, Grams: 118})
	require.NoError(t, err)
	assert.NotEqual(t, a.Entry.UniqueID, b.Entry.UniqueID)

	moved, err := f.plans.MoveEntry(ctx, "ana", testDate, b.Entry.UniqueID, "snacks")
	require.NoError(t, err)
	assert.Len(t, moved.Plan.Meals[0].Entries, 1)
	assert.Len(t, moved.Plan.Meals[3].Entries, 1)
	assert.Equal(t, b.Entry.UniqueID, moved.Plan.Meals[3].Entries[0].UniqueID)

	_, err = f.plans.MoveEntry(ctx, "ana", testDate, b.Entry.UniqueID, "nowhere")
	assert.ErrorIs(t, err, ErrMealTypeNotFound)

	view, err := f.plans.RemoveEntry(ctx, "ana", testDate, a.Entry.UniqueID)
	require.NoError(t, err)
	assert.Empty(t, view.Meals[0].Entries)
	assert.Equal(t, 105.0, view.Totals.Calories)

	_, err = f.plans.RemoveEntry(ctx, "ana", testDate, a.Entry.UniqueID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSaveDropsUnconfiguredKeys(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	view, err := f.plans.Save(ctx, "ana", testDate, SavePlanRequest{Meals: map[string][]EntryInput{
		"lunch":  {{FoodID: chickenID, Grams: 200, UniqueID: "keep-me"}},
		"orphan": {{FoodID: bananaID, Grams: 100}},
	}})
	require.NoError(t, err)

	assert.Len(t, view.Meals, 4)
	assert.Equal(t, "keep-me", view.Meals[1].Entries[0].UniqueID)
	assert.InDelta(t, 330, view.Meals[1].Entries[0].Calories, 1e-9)

	stored, _, err := f.store.GetDailyPlansStorage().GetDailyPlan(ctx, "ana", testDate)
	require.NoError(t, err)
	_, ok := stored.Meals["orphan"]
	assert.False(t, ok)

	_, err = f.plans.Save(ctx, "ana", testDate, SavePlanRequest{Meals: map[string][]EntryInput{
		"lunch": {{FoodID: chickenID, Grams: 0}},
	}})
	assert.ErrorIs(t, err, ErrInvalidGrams)
}

func TestSaveReassignsDuplicateIDs(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	view, err := f.plans.Save(ctx, "ana", testDate, SavePlanRequest{Meals: map[string][]EntryInput{
		"breakfast": {{FoodID: bananaID, Grams: 59, UniqueID: "dup"}},
		"lunch":     {{FoodID: chickenID, Grams: 100, UniqueID: "dup"}, {FoodID: chickenID, Grams: 50, UniqueID: " dup "}},
	}})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, m := range view.Meals {
		for _, e := range m.Entries {
			counts[e.UniqueID]++
		}
	}
	assert.Len(t, counts, 3)
	for id, n := range counts {
		assert.Equal(t, 1, n, "id %s", id)
	}
	assert.Equal(t, "dup", view.Meals[0].Entries[0].UniqueID)

	resp, err := f.plans.UpdateEntryGrams(ctx, "ana", testDate, "dup", 200)
	require.NoError(t, err)
	assert.Equal(t, bananaID, resp.Entry.FoodID)
}

func TestGetRehydratesLegacyEntries(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, _, err := f.plans.profiles.Load(ctx, "ana")
	require.NoError(t, err)

	_, err = f.store.GetDailyPlansStorage().SaveDailyPlan(ctx, storage.DailyPlan{
		Handle: "ana",
		Date:   testDate,
		Meals: map[string][]storage.LoggedFood{
			"breakfast": {{FoodID: bananaID, Name: "Banana", EnteredGrams: 59}},
			"gone":      {{FoodID: bananaID, Name: "Banana", EnteredGrams: 10, Calories: 9, UniqueID: "g1"}},
		},
	})
	require.NoError(t, err)

	view, err := f.plans.Get(ctx, "ana", testDate)
	require.NoError(t, err)

	entry := view.Meals[0].Entries[0]
	assert.InDelta(t, 52.5, entry.Calories, 1e-9)
	assert.Equal(t, "id-1", entry.UniqueID)
	assert.Len(t, view.Meals, 4)

	stored, _, err := f.store.GetDailyPlansStorage().GetDailyPlan(ctx, "ana", testDate)
	require.NoError(t, err)
	assert.Equal(t, "id-1", stored.Meals["breakfast"][0].UniqueID)
}

func TestDeletedMealTypeDisappearsFromPlan(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	mt, _, err := f.mealTypes.Add(ctx, "ana", "Pre Workout")
	require.NoError(t, err)

	_, err = f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: mt.Key, FoodID: bananaID, Grams: 118})
	require.NoError(t, err)

	view, err := f.plans.Get(ctx, "ana", testDate)
	require.NoError(t, err)
	require.Len(t, view.Meals, 5)
	assert.Equal(t, 105.0, view.Totals.Calories)

	res, err := f.mealTypes.Delete(ctx, "ana", mt.Key, testDate)
	require.NoError(t, err)
	assert.Equal(t, mealtypes.OutcomeUpdated, res.Outcome)

	view, err = f.plans.Get(ctx, "ana", testDate)
	require.NoError(t, err)
	assert.Len(t, view.Meals, 4)
	assert.Equal(t, 0.0, view.Totals.Calories)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.plans.AddEntry(ctx, "ana", testDate, AddEntryRequest{MealKey: "lunch", FoodID: chickenID, Grams: 200})
	require.NoError(t, err)

	s, err := f.plans.Summary(ctx, "ana", testDate)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, s.Calories.Goal)
	assert.Equal(t, 330.0, s.Calories.Consumed)
	assert.Equal(t, 1670.0, s.Calories.Remaining)
	assert.Equal(t, 16.5, s.Calories.Percent)
	assert.Equal(t, 1, s.Entries)
	require.Len(t, s.Meals, 4)
	assert.Equal(t, "lunch", s.Meals[1].Key)
	assert.Equal(t, 330.0, s.Meals[1].Calories)
}
