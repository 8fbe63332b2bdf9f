package bmi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCalculate обрабатывает POST /v1/bmi/calculate
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var in profiles.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", profiles.MsgNotNumeric, "")
		return
	}

	res, err := h.service.Calculate(r.Context(), in)
	if err != nil {
		var verr *profiles.ValidationError
		switch {
		case errors.As(err, &verr):
			h.sendError(w, http.StatusBadRequest, "validation_error", verr.Message, verr.Field)
		case errors.Is(err, ErrInvalidInput):
			h.sendError(w, http.StatusBadRequest, "validation_error", profiles.MsgNotPositive, "")
		default:
			log.Printf("WARN bmi: calculation failed: %v", err)
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to calculate BMI", "")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, res)
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message, field string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}
