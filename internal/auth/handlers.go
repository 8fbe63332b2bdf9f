package auth

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

// HandleDevAuth handles POST /v1/auth/dev
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	resp, err := h.service.SignInDev(r.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrDevAuthDenied):
			writeErrorResponse(w, http.StatusNotFound, "not_found", "Dev auth is disabled")
		case errors.Is(err, ErrInvalidUserID):
			writeErrorResponse(w, http.StatusBadRequest, "invalid_user_id", "user_id must be at most 64 characters without spaces or slashes")
		default:
			log.Printf("WARN auth: dev sign-in failed err=%v", err)
			writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		}
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
