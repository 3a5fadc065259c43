package profiles

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fdg312/diet-planner/internal/storage"
)

// Handler содержит HTTP обработчики для профилей
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleIdentify обрабатывает POST /v1/profiles/identify
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	doc, created, err := h.service.Load(r.Context(), req.Handle)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.sendJSON(w, status, toResponse(doc, created))
}

// HandleGet обрабатывает GET /v1/profiles/{handle}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doc, created, err := h.service.Load(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toResponse(doc, created))
}

// HandleUpdateProfile обрабатывает PUT /v1/profiles/{handle}/profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	doc, err := h.service.UpdateProfile(r.Context(), r.PathValue("handle"), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toResponse(doc, false))
}

// HandleUpdateGoals обрабатывает PUT /v1/profiles/{handle}/goals
func (h *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	var req storage.NutritionGoals
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	doc, err := h.service.UpdateGoals(r.Context(), r.PathValue("handle"), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toResponse(doc, false))
}

// HandleSuggestedGoals обрабатывает GET /v1/profiles/{handle}/goals/suggested
func (h *Handler) HandleSuggestedGoals(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	goals, err := h.service.SuggestedGoals(r.Context(), handle)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	normalized, _ := NormalizeHandle(handle)
	h.sendJSON(w, http.StatusOK, SuggestedGoalsResponse{Handle: normalized, Goals: goals})
}

// HandleMetrics обрабатывает GET /v1/profiles/{handle}/metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Metrics(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, resp)
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyHandle):
		h.sendError(w, http.StatusBadRequest, "empty_handle", "Profile handle cannot be empty")
	case errors.Is(err, ErrInvalidHandle):
		h.sendError(w, http.StatusBadRequest, "invalid_handle", "Profile handle is invalid")
	case errors.Is(err, ErrInvalidSex):
		h.sendError(w, http.StatusBadRequest, "invalid_sex", "Sex must be male or female")
	case errors.Is(err, ErrInvalidActivityLevel):
		h.sendError(w, http.StatusBadRequest, "invalid_activity_level", "Unknown activity level")
	case errors.Is(err, ErrInvalidBirthDate):
		h.sendError(w, http.StatusBadRequest, "invalid_birth_date", "Birth date must be YYYY-MM-DD and not in the future")
	case errors.Is(err, ErrInvalidMeasurement):
		h.sendError(w, http.StatusBadRequest, "invalid_measurement", "Height and weight must be non-negative")
	case errors.Is(err, ErrInvalidGoals):
		h.sendError(w, http.StatusBadRequest, "invalid_goals", "Goals must be non-negative")
	default:
		log.Printf("ERROR profiles: %v", err)
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to access profile")
	}
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
