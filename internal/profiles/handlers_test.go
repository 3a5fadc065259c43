package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

func newTestHandler() (*Handler, *Service, *memory.MemoryStorage) {
	store := memory.New()
	service := NewService(store, fixedNow)
	return NewHandler(service), service, store
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"  Ana ", "ana", nil},
		{"BOB", "bob", nil},
		{"   ", "", ErrEmptyHandle},
		{"a/b", "", ErrInvalidHandle},
	}
	for _, tt := range tests {
		got, err := NormalizeHandle(tt.raw)
		if err != tt.wantErr {
			t.Errorf("NormalizeHandle(%q): expected err %v, got %v", tt.raw, tt.wantErr, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeHandle(%q): expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestLoadInitializesDefaults(t *testing.T) {
	_, service, store := newTestHandler()
	ctx := context.Background()

	doc, created, err := service.Load(ctx, " Ana ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true on first load")
	}
	if doc.Handle != "ana" {
		t.Errorf("expected handle ana, got %s", doc.Handle)
	}
	if doc.Profile.Sex != "female" || doc.Profile.ActivityLevel != "sedentary" {
		t.Errorf("unexpected default profile: %+v", doc.Profile)
	}
	want := storage.NutritionGoals{Calories: 2000, ProteinGrams: 100, CarbsGrams: 250, FatGrams: 67}
	if doc.Goals != want {
		t.Errorf("expected default goals %+v, got %+v", want, doc.Goals)
	}
	if len(doc.MealTypes) != 4 || doc.MealTypes[0].Key != "breakfast" || doc.MealTypes[3].Key != "snacks" {
		t.Errorf("unexpected default meal types: %+v", doc.MealTypes)
	}

	if _, ok, _ := store.GetProfileDocument(ctx, "ana"); !ok {
		t.Error("expected defaults to be persisted")
	}

	_, created, err = service.Load(ctx, "ANA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false on second load")
	}
}

func TestLoadFillsMissingMealTypes(t *testing.T) {
	_, service, store := newTestHandler()
	ctx := context.Background()

	store.UpsertProfileDocument(ctx, storage.ProfileDocument{
		Handle:  "old",
		Profile: storage.UserProfile{Sex: "male", ActivityLevel: "moderate"},
		Goals:   storage.NutritionGoals{Calories: 1800, ProteinGrams: 90, CarbsGrams: 225, FatGrams: 60},
	})

	doc, created, err := service.Load(ctx, "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for existing document")
	}
	if len(doc.MealTypes) != 4 {
		t.Errorf("expected default meal types to be filled, got %d", len(doc.MealTypes))
	}
	if doc.Goals.Calories != 1800 {
		t.Errorf("expected stored goals to be kept, got %v", doc.Goals.Calories)
	}
}

func TestHandleIdentify(t *testing.T) {
	handler, _, _ := newTestHandler()

	t.Run("Created", func(t *testing.T) {
		body, _ := json.Marshal(IdentifyRequest{Handle: "Ana"})
		req := httptest.NewRequest(http.MethodPost, "/v1/profiles/identify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleIdentify(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp ProfileResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Handle != "ana" || !resp.Created {
			t.Errorf("expected created profile ana, got %+v", resp)
		}
	})

	t.Run("Existing", func(t *testing.T) {
		body, _ := json.Marshal(IdentifyRequest{Handle: "ana"})
		req := httptest.NewRequest(http.MethodPost, "/v1/profiles/identify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleIdentify(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("EmptyHandle", func(t *testing.T) {
		body, _ := json.Marshal(IdentifyRequest{Handle: "   "})
		req := httptest.NewRequest(http.MethodPost, "/v1/profiles/identify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleIdentify(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleUpdateProfile(t *testing.T) {
	handler, _, _ := newTestHandler()

	t.Run("Success", func(t *testing.T) {
		body, _ := json.Marshal(UpdateProfileRequest{
			Name:          " Ana ",
			BirthDate:     "1994-06-15",
			Sex:           "male",
			HeightCm:      175,
			WeightKg:      70,
			ActivityLevel: "moderate",
		})
		req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/profile", bytes.NewReader(body))
		req.SetPathValue("handle", "ana")
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp ProfileResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Profile.Name != "Ana" || resp.Profile.WeightKg != 70 {
			t.Errorf("unexpected profile: %+v", resp.Profile)
		}
	})

	t.Run("InvalidSex", func(t *testing.T) {
		body, _ := json.Marshal(UpdateProfileRequest{Sex: "robot"})
		req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/profile", bytes.NewReader(body))
		req.SetPathValue("handle", "ana")
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("FutureBirthDate", func(t *testing.T) {
		body, _ := json.Marshal(UpdateProfileRequest{BirthDate: "2030-01-01"})
		req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/profile", bytes.NewReader(body))
		req.SetPathValue("handle", "ana")
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		body, _ := json.Marshal(UpdateProfileRequest{WeightKg: -3})
		req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/profile", bytes.NewReader(body))
		req.SetPathValue("handle", "ana")
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleUpdateGoals(t *testing.T) {
	handler, _, _ := newTestHandler()

	body, _ := json.Marshal(storage.NutritionGoals{Calories: 2200, ProteinGrams: 120, CarbsGrams: 260, FatGrams: 70})
	req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/goals", bytes.NewReader(body))
	req.SetPathValue("handle", "ana")
	w := httptest.NewRecorder()

	handler.HandleUpdateGoals(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp ProfileResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Goals.Calories != 2200 {
		t.Errorf("expected calories 2200, got %v", resp.Goals.Calories)
	}

	body, _ = json.Marshal(storage.NutritionGoals{Calories: -1})
	req = httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/goals", bytes.NewReader(body))
	req.SetPathValue("handle", "ana")
	w = httptest.NewRecorder()

	handler.HandleUpdateGoals(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleUpdateGoalsRejectsAllZero(t *testing.T) {
	handler, service, _ := newTestHandler()
	ctx := context.Background()

	before, _, err := service.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	body, _ := json.Marshal(storage.NutritionGoals{})
	req := httptest.NewRequest(http.MethodPut, "/v1/profiles/ana/goals", bytes.NewReader(body))
	req.SetPathValue("handle", "ana")
	w := httptest.NewRecorder()

	handler.HandleUpdateGoals(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	after, _, err := service.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if after.Goals != before.Goals {
		t.Errorf("expected goals %+v to be unchanged, got %+v", before.Goals, after.Goals)
	}

	// a single positive target is a valid saved goal set and survives Load
	if _, err := service.UpdateGoals(ctx, "ana", storage.NutritionGoals{Calories: 1800}); err != nil {
		t.Fatalf("update goals: %v", err)
	}
	after, _, err = service.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := storage.NutritionGoals{Calories: 1800}
	if after.Goals != want {
		t.Errorf("expected goals %+v, got %+v", want, after.Goals)
	}
}

func TestHandleSuggestedGoalsAndMetrics(t *testing.T) {
	handler, service, _ := newTestHandler()
	ctx := context.Background()

	_, err := service.UpdateProfile(ctx, "ana", UpdateProfileRequest{
		BirthDate:     "1994-06-15",
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      70,
		ActivityLevel: "sedentary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/ana/goals/suggested", nil)
	req.SetPathValue("handle", "ana")
	w := httptest.NewRecorder()

	handler.HandleSuggestedGoals(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var suggested SuggestedGoalsResponse
	json.NewDecoder(w.Body).Decode(&suggested)
	// BMR 1680 (age 30) * 1.2
	if suggested.Goals.Calories != 2016 {
		t.Errorf("expected 2016 kcal, got %v", suggested.Goals.Calories)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/profiles/ana/metrics", nil)
	req.SetPathValue("handle", "ana")
	w = httptest.NewRecorder()

	handler.HandleMetrics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var metrics MetricsResponse
	json.NewDecoder(w.Body).Decode(&metrics)
	if metrics.Metrics.Age != 30 {
		t.Errorf("expected age 30, got %d", metrics.Metrics.Age)
	}
	if metrics.Metrics.BMR != 1680 {
		t.Errorf("expected BMR 1680, got %v", metrics.Metrics.BMR)
	}
	if metrics.Date != "2024-06-15" {
		t.Errorf("expected date 2024-06-15, got %s", metrics.Date)
	}
}
