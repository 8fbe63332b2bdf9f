package reports

import (
	"time"

	"github.com/google/uuid"
)

// Export kinds and formats
const (
	KindPlan = "plan"
	KindChat = "chat"

	FormatTXT = "txt"
	FormatPDF = "pdf"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

// Export represents stored export metadata
type Export struct {
	ID        uuid.UUID
	Kind      string
	Format    string
	ObjectKey string
	SizeBytes int64
	Status    string
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateExportRequest is the body of POST /v1/exports
type CreateExportRequest struct {
	Kind   string `json:"kind"`   // "plan" or "chat"
	Format string `json:"format"` // "txt" or "pdf"
}

// ExportDTO is the response representation of an export
type ExportDTO struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Format      string    `json:"format"`
	Filename    string    `json:"filename"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportsResponse is the list response
type ExportsResponse struct {
	Exports []ExportDTO `json:"exports"`
}

// Filename is the suggested download name.
func (e Export) Filename() string {
	base := "health_plan"
	if e.Kind == KindChat {
		base = "chat_history"
	}
	return base + "_" + e.CreatedAt.Format("20060102_1504") + "." + e.Format
}

func contentType(format string) string {
	if format == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}
