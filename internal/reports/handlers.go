package reports

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/fdg312/bmi-planner/internal/blob"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handlers serves /v1/exports.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var exportErrors = []errorMapping{
	{ErrInvalidKind, http.StatusBadRequest, "invalid_kind", "Kind must be 'plan' or 'chat'"},
	{ErrInvalidFormat, http.StatusBadRequest, "invalid_format", "Format must be 'txt' or 'pdf'"},
	{profiles.ErrProfileRequired, http.StatusConflict, "profile_required", profiles.MsgProfileRequired},
	{ErrEmptyConversation, http.StatusConflict, "empty_conversation", "No conversation history to export."},
	{ErrExportFailed, http.StatusBadGateway, "export_failed", "Failed to store export"},
	{ErrExportNotFound, http.StatusNotFound, "export_not_found", "Export not found"},
}

// HandleCreate renders the plan or the chat transcript: POST /v1/exports.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	export, err := h.service.CreateExport(r.Context(), req)
	if err != nil {
		respondError(w, "create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(export, getBaseURL(r)))
}

// HandleList pages through the caller's exports, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize, 1)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := queryInt(r, "offset", 0, 0)

	exports, err := h.service.ListExports(r.Context(), limit, offset)
	if err != nil {
		respondError(w, "list", err)
		return
	}

	baseURL := getBaseURL(r)
	resp := ExportsResponse{Exports: make([]ExportDTO, 0, len(exports))}
	for i := range exports {
		resp.Exports = append(resp.Exports, toDTO(&exports[i], baseURL))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDownload redirects to the bucket when the store can presign,
// otherwise streams the file as an attachment.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	export, ok := h.exportFromPath(w, r)
	if !ok {
		return
	}

	if export.Status == StatusReady {
		url, err := h.service.PresignedURL(r.Context(), export)
		if err != nil {
			respondError(w, "presign", err)
			return
		}
		if url != "" {
			http.Redirect(w, r, url, http.StatusFound)
			return
		}
	}

	data, err := h.service.ExportData(r.Context(), export)
	if err != nil {
		respondError(w, "download", err)
		return
	}

	w.Header().Set("Content-Type", contentType(export.Format))
	w.Header().Set("Content-Disposition", blob.ContentDisposition(export.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return
	}

	if err := h.service.DeleteExport(r.Context(), id); err != nil {
		respondError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) exportFromPath(w http.ResponseWriter, r *http.Request) (*Export, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return nil, false
	}

	export, err := h.service.GetExport(r.Context(), id)
	if err != nil {
		respondError(w, "get", err)
		return nil, false
	}
	return export, true
}

func toDTO(e *Export, baseURL string) ExportDTO {
	return ExportDTO{
		ID:          e.ID,
		Kind:        e.Kind,
		Format:      e.Format,
		Filename:    e.Filename(),
		DownloadURL: baseURL + "/v1/exports/" + e.ID.String() + "/download",
		SizeBytes:   e.SizeBytes,
		Status:      e.Status,
		Error:       e.Error,
		CreatedAt:   e.CreatedAt,
	}
}

func respondError(w http.ResponseWriter, op string, err error) {
	for _, m := range exportErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.message)
			return
		}
	}
	log.Printf("WARN exports: %s failed: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func queryInt(r *http.Request, key string, def, floor int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < floor {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
