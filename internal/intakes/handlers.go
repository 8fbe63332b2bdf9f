package intakes

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleAddWater POST /v1/intakes/water
func (h *Handlers) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req AddWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", MsgInvalidAmount)
		return
	}

	if _, err := h.service.AddWater(r.Context(), req.AmountMl); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "invalid_amount", MsgInvalidAmount)
		case errors.Is(err, ErrDailyLimitExceeded):
			writeError(w, http.StatusBadRequest, "daily_limit_exceeded", "Daily water limit exceeded")
		default:
			log.Printf("WARN intakes: add water failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to add water")
		}
		return
	}

	h.writeDaily(w, r, http.StatusCreated)
}

// HandleGetWater GET /v1/intakes/water
func (h *Handlers) HandleGetWater(w http.ResponseWriter, r *http.Request) {
	h.writeDaily(w, r, http.StatusOK)
}

func (h *Handlers) writeDaily(w http.ResponseWriter, r *http.Request, status int) {
	state, err := h.service.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get water status")
		return
	}
	entries, err := h.service.Entries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list water intakes")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(WaterResponse{
		Date:    h.service.Today(),
		State:   state,
		Entries: entries,
	})
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
