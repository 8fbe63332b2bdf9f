package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

// Handler handles HTTP requests for meal suggestions.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal suggestions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/plan/meals
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context())
	if err != nil {
		if errors.Is(err, profiles.ErrProfileRequired) {
			writeError(w, http.StatusConflict, "profile_required", profiles.MsgProfileRequired)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get meal suggestions")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
