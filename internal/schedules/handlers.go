package schedules

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet GET /v1/plan/schedule
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context())
	if err != nil {
		if errors.Is(err, profiles.ErrProfileRequired) {
			writeError(w, http.StatusConflict, "profile_required", profiles.MsgProfileRequired)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to compose schedule")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
