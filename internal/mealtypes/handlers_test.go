package mealtypes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleCreateAndList(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewHandler(svc)

	body, _ := json.Marshal(CreateMealTypeRequest{Name: "Elevenses"})
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/ana/meal-types", bytes.NewReader(body))
	req.SetPathValue("handle", "ana")
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/profiles/ana/meal-types", nil)
	req.SetPathValue("handle", "ana")
	w = httptest.NewRecorder()

	handler.HandleList(w, req)

	var resp MealTypesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.MealTypes) != 5 {
		t.Errorf("expected 5 meal types, got %d", len(resp.MealTypes))
	}
	if resp.MealTypes[4].Name != "Elevenses" {
		t.Errorf("expected custom meal last, got %s", resp.MealTypes[4].Name)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewHandler(svc)

	for _, name := range []string{"", "Lunch"} {
		body, _ := json.Marshal(CreateMealTypeRequest{Name: name})
		req := httptest.NewRequest(http.MethodPost, "/v1/profiles/ana/meal-types", bytes.NewReader(body))
		req.SetPathValue("handle", "ana")
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("name %q: expected status 400, got %d", name, w.Code)
		}
	}
}

func TestHandleDelete(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewHandler(svc)

	t.Run("Default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/ana/meal-types/lunch", nil)
		req.SetPathValue("handle", "ana")
		req.SetPathValue("key", "lunch")
		w := httptest.NewRecorder()

		handler.HandleDelete(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/ana/meal-types/missing", nil)
		req.SetPathValue("handle", "ana")
		req.SetPathValue("key", "missing")
		w := httptest.NewRecorder()

		handler.HandleDelete(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("AlreadyAbsent", func(t *testing.T) {
		mt, _, err := svc.Add(context.Background(), "ana", "Late")
		if err != nil {
			t.Fatal(err)
		}

		r := httptest.NewRequest(http.MethodDelete, "/v1/profiles/ana/meal-types/"+mt.Key+"?date=2024-06-01", nil)
		r.SetPathValue("handle", "ana")
		r.SetPathValue("key", mt.Key)
		w := httptest.NewRecorder()

		handler.HandleDelete(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var res DeleteResult
		json.NewDecoder(w.Body).Decode(&res)
		if res.Outcome != OutcomeAlreadyAbsent {
			t.Errorf("expected outcome already_absent, got %s", res.Outcome)
		}
		if res.Date != "2024-06-01" {
			t.Errorf("expected date 2024-06-01, got %s", res.Date)
		}
	})
}

func TestHandleUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/v1/profiles/ana/meal-types/dinner", bytes.NewReader([]byte(`{"name":"Supper","order":0}`)))
	req.SetPathValue("handle", "ana")
	req.SetPathValue("key", "dinner")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for order 0, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/v1/profiles/ana/meal-types/dinner", bytes.NewReader([]byte(`{"name":"Supper"}`)))
	req.SetPathValue("handle", "ana")
	req.SetPathValue("key", "dinner")
	w = httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp MealTypesResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.MealTypes[2].Key != "dinner" || resp.MealTypes[2].Name != "Supper" {
		t.Errorf("expected dinner renamed to Supper, got %+v", resp.MealTypes[2])
	}
}
