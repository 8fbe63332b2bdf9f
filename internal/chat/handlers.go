package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

const maxQueryBodyBytes = 16 << 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleListMessages returns the caller's transcript, oldest first.
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListMessages(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSendMessage submits a question and waits for the answer while the request lives.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxQueryBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	resp, err := h.service.SendMessage(r.Context(), req.Content)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Suggestions())
}

// chatErrors maps session and service failures to responses; the first match wins.
var chatErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{ErrEmptyQuery, http.StatusBadRequest, "empty_query", "Query must not be empty"},
	{ErrQueryInFlight, http.StatusConflict, "query_in_flight", "Previous question is still being answered"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout", "Answer is not ready yet"},
	{context.Canceled, http.StatusGatewayTimeout, "timeout", "Answer is not ready yet"},
	{ErrSessionClosed, http.StatusServiceUnavailable, "unavailable", "Chat is shutting down"},
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	for _, e := range chatErrors {
		if errors.Is(err, e.err) {
			writeError(w, e.status, e.code, e.message)
			return
		}
	}
	log.Printf("WARN chat: request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
