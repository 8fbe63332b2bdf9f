package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler содержит HTTP обработчики текущего профиля
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet обрабатывает GET /v1/profile
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Current(r.Context())
	if err != nil {
		if errors.Is(err, ErrProfileRequired) {
			h.sendError(w, http.StatusNotFound, "profile_required", MsgProfileRequired)
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load profile")
		return
	}

	h.sendJSON(w, http.StatusOK, profile)
}

// HandleClear обрабатывает DELETE /v1/profile (clear inputs)
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to clear profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleActivityLevels обрабатывает GET /v1/activity-levels
func (h *Handler) HandleActivityLevels(w http.ResponseWriter, r *http.Request) {
	levels := ActivityLevels()
	resp := ActivityLevelsResponse{Levels: make([]ActivityLevelDTO, 0, len(levels))}
	for _, level := range levels {
		resp.Levels = append(resp.Levels, ActivityLevelDTO{
			Name:        level,
			Multiplier:  level.Multiplier(),
			Explanation: level.Explanation(),
		})
	}

	h.sendJSON(w, http.StatusOK, resp)
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
