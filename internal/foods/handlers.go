package foods

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/diet-planner/internal/nutrition"
)

// FoodsResponse is the list response for GET /v1/foods
type FoodsResponse struct {
	Foods []nutrition.Food `json:"foods"`
}

// ActivityLevelsResponse is the response for GET /v1/activity-levels
type ActivityLevelsResponse struct {
	ActivityLevels []nutrition.ActivityLevel `json:"activity_levels"`
}

// Handler serves the read-only food catalog.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// HandleSearch handles GET /v1/foods?q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	foods := h.catalog.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, FoodsResponse{Foods: foods})
}

// HandleGet handles GET /v1/foods/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_food_id", "food id must be an integer")
		return
	}

	food, err := h.catalog.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "food_not_found", "Food not found")
		return
	}

	writeJSON(w, http.StatusOK, food)
}

// HandleActivityLevels handles GET /v1/activity-levels
func (h *Handler) HandleActivityLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ActivityLevelsResponse{ActivityLevels: nutrition.ActivityLevels()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
