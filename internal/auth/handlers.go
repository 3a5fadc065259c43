package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleAnonymous handles POST /v1/auth/anonymous
func (h *Handlers) HandleAnonymous(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SignInAnonymous(r.Context())
	if err != nil {
		if errors.Is(err, ErrAuthDisabled) {
			writeErrorResponse(w, http.StatusNotFound, "auth_disabled", "Anonymous sign-in is disabled")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
