package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/diet-planner/internal/config"
)

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	srv := New(cfg)
	t.Cleanup(func() { srv.Close() })
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &config.Config{Port: 8080})

	w := do(t, h, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}

	if w := do(t, h, http.MethodPost, "/healthz", nil, nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestPlanningFlow(t *testing.T) {
	h := newTestServer(t, &config.Config{Port: 8080})

	w := do(t, h, http.MethodPost, "/v1/profiles/identify", map[string]string{"handle": "  Ana "}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("identify: expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/v1/profiles/ana/meal-types", map[string]string{"name": "Second Breakfast"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add meal type: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		MealType struct {
			Key string `json:"key"`
		} `json:"meal_type"`
	}
	json.NewDecoder(w.Body).Decode(&created)

	w = do(t, h, http.MethodPost, "/v1/profiles/ana/plans/2024-06-15/entries",
		map[string]interface{}{"meal_key": created.MealType.Key, "food_id": 2, "grams": 59}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add entry: expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/v1/profiles/ana/plans/2024-06-15", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get plan: expected status 200, got %d", w.Code)
	}
	var plan struct {
		Meals []struct {
			Key string `json:"key"`
		} `json:"meals"`
		Totals struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
	}
	json.NewDecoder(w.Body).Decode(&plan)
	if len(plan.Meals) != 5 {
		t.Errorf("expected 5 meals, got %d", len(plan.Meals))
	}
	if plan.Totals.Calories != 52.5 {
		t.Errorf("expected 52.5 kcal, got %v", plan.Totals.Calories)
	}

	w = do(t, h, http.MethodDelete, "/v1/profiles/ana/meal-types/"+created.MealType.Key+"?date=2024-06-15", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete meal type: expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var del struct {
		Outcome string `json:"outcome"`
	}
	json.NewDecoder(w.Body).Decode(&del)
	if del.Outcome != "updated" {
		t.Errorf("expected outcome updated, got %s", del.Outcome)
	}

	w = do(t, h, http.MethodGet, "/v1/profiles/ana/plans/2024-06-15/summary", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("summary: expected status 200, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/v1/profiles/ana/reports",
		map[string]string{"from": "2024-06-01", "to": "2024-06-30", "format": "csv"}, nil)
	if w.Code != http.StatusCreated {
		t.Errorf("report: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestServer(t, &config.Config{Port: 8080})

	if w := do(t, h, http.MethodGet, "/v1/foods?q=ban", nil, nil); w.Code != http.StatusOK {
		t.Errorf("search: expected status 200, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/v1/foods/9999", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing food: expected status 404, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/v1/activity-levels", nil, nil); w.Code != http.StatusOK {
		t.Errorf("activity levels: expected status 200, got %d", w.Code)
	}
}

func TestAnonymousAuthChain(t *testing.T) {
	h := newTestServer(t, &config.Config{
		Port:          8080,
		AuthMode:      config.AuthModeAnonymous,
		AuthRequired:  true,
		JWTSecret:     "test-secret",
		JWTIssuer:     "diet-planner",
		JWTTTLMinutes: 60,
	})

	if w := do(t, h, http.MethodGet, "/v1/profiles/ana", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/v1/foods", nil, nil); w.Code != http.StatusOK {
		t.Errorf("expected public catalog, got %d", w.Code)
	}

	w := do(t, h, http.MethodPost, "/v1/auth/anonymous", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign in: expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	json.NewDecoder(w.Body).Decode(&token)

	w = do(t, h, http.MethodGet, "/v1/profiles/ana", nil, map[string]string{"Authorization": "Bearer " + token.AccessToken})
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}
