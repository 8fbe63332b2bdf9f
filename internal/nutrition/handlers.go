package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

// Handler handles HTTP requests for the energy plan.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetPlan handles GET /v1/plan
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetPlan(r.Context())
	if err != nil {
		if errors.Is(err, profiles.ErrProfileRequired) {
			writeError(w, http.StatusConflict, "profile_required", profiles.MsgProfileRequired)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
