package history

import (
	"encoding/json"
	"net/http"
)

type ListResponse struct {
	Records  []Entry  `json:"records"`
	Warnings []string `json:"warnings,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/bmi/history. Load problems are reported as warnings with a 200.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, warnings := h.service.List(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListResponse{Records: entries, Warnings: warnings})
}
