package dailyplans

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

// HandleGet handles GET /v1/profiles/{handle}/plans/{date}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), r.PathValue("handle"), r.PathValue("date"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, view)
}

// HandleSave handles PUT /v1/profiles/{handle}/plans/{date}
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	view, err := h.service.Save(r.Context(), r.PathValue("handle"), r.PathValue("date"), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, view)
}

// HandleSummary handles GET /v1/profiles/{handle}/plans/{date}/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), r.PathValue("handle"), r.PathValue("date"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, summary)
}

// HandleAddEntry handles POST /v1/profiles/{handle}/plans/{date}/entries
func (h *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.AddEntry(r.Context(), r.PathValue("handle"), r.PathValue("date"), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusCreated, resp)
}

// HandleUpdateEntry handles PATCH /v1/profiles/{handle}/plans/{date}/entries/{entryID}
func (h *Handler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.UpdateEntryGrams(r.Context(), r.PathValue("handle"), r.PathValue("date"), r.PathValue("entryID"), req.Grams)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, resp)
}

// HandleDeleteEntry handles DELETE /v1/profiles/{handle}/plans/{date}/entries/{entryID}
func (h *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveEntry(r.Context(), r.PathValue("handle"), r.PathValue("date"), r.PathValue("entryID"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, view)
}

// HandleMoveEntry handles POST /v1/profiles/{handle}/plans/{date}/entries/{entryID}/move
func (h *Handler) HandleMoveEntry(w http.ResponseWriter, r *http.Request) {
	var req MoveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.MoveEntry(r.Context(), r.PathValue("handle"), r.PathValue("date"), r.PathValue("entryID"), req.MealKey)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, resp)
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrEmptyHandle), errors.Is(err, profiles.ErrInvalidHandle):
		h.sendError(w, http.StatusBadRequest, "invalid_handle", err.Error())
	case errors.Is(err, ErrInvalidDate):
		h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
	case errors.Is(err, ErrInvalidGrams):
		h.sendError(w, http.StatusBadRequest, "invalid_grams", "Grams must be a positive number")
	case errors.Is(err, ErrTooManyEntries):
		h.sendError(w, http.StatusBadRequest, "too_many_entries", "Meal entry limit reached")
	case errors.Is(err, ErrFoodNotFound):
		h.sendError(w, http.StatusNotFound, "food_not_found", "Food not found")
	case errors.Is(err, ErrMealTypeNotFound):
		h.sendError(w, http.StatusNotFound, "meal_type_not_found", "Meal type not found")
	case errors.Is(err, ErrEntryNotFound):
		h.sendError(w, http.StatusNotFound, "entry_not_found", "Entry not found")
	default:
		log.Printf("ERROR dailyplans: %v", err)
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to access daily plan")
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
