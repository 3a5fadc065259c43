package mealtypes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fdg312/diet-planner/internal/profiles"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/profiles/{handle}/meal-types
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.List(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, MealTypesResponse{MealTypes: types})
}

// HandleCreate handles POST /v1/profiles/{handle}/meal-types
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMealTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	mt, types, err := h.service.Add(r.Context(), r.PathValue("handle"), req.Name)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusCreated, CreateMealTypeResponse{MealType: mt, MealTypes: types})
}

// HandleUpdate handles PATCH /v1/profiles/{handle}/meal-types/{key}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateMealTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	types, err := h.service.Update(r.Context(), r.PathValue("handle"), r.PathValue("key"), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, MealTypesResponse{MealTypes: types})
}

// HandleDelete handles DELETE /v1/profiles/{handle}/meal-types/{key}?date=YYYY-MM-DD
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), r.PathValue("handle"), r.PathValue("key"), r.URL.Query().Get("date"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, result)
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrEmptyHandle), errors.Is(err, profiles.ErrInvalidHandle):
		h.sendError(w, http.StatusBadRequest, "invalid_handle", err.Error())
	case errors.Is(err, ErrEmptyMealName):
		h.sendError(w, http.StatusBadRequest, "empty_name", "Meal type name cannot be empty")
	case errors.Is(err, ErrDuplicateMealName):
		h.sendError(w, http.StatusBadRequest, "duplicate_name", "Meal type name already exists")
	case errors.Is(err, ErrTooManyMealTypes):
		h.sendError(w, http.StatusBadRequest, "too_many_meal_types", "Meal type limit reached")
	case errors.Is(err, ErrInvalidOrder):
		h.sendError(w, http.StatusBadRequest, "invalid_order", "Order must be positive")
	case errors.Is(err, ErrInvalidDate):
		h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
	case errors.Is(err, ErrMealTypeNotFound):
		h.sendError(w, http.StatusNotFound, "not_found", "Meal type not found")
	case errors.Is(err, ErrDefaultMealType):
		h.sendError(w, http.StatusBadRequest, "default_meal_type", "Default meal types cannot be deleted")
	default:
		log.Printf("ERROR mealtypes: %v", err)
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to update meal types")
	}
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
