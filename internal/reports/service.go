package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/bmi-planner/internal/blob"
	"github.com/fdg312/bmi-planner/internal/chat"
	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/userctx"
	"github.com/google/uuid"
)

// Errors
var (
	ErrInvalidKind    = errors.New("invalid kind")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrExportNotFound = errors.New("export not found")
	ErrExportFailed   = errors.New("export failed")
)

// Adapter interfaces
type ProfileSource interface {
	Current(ctx context.Context) (*profiles.HealthProfile, error)
}

type TranscriptSource interface {
	Turns(ctx context.Context) ([]chat.Turn, error)
}

// Service handles exports business logic
type Service struct {
	exportsStorage storage.ExportsStorage
	profiles       ProfileSource
	transcripts    TranscriptSource
	blobStore      blob.Store
	now            func() time.Time
}

// NewService creates a new exports service
func NewService(
	exportsStorage storage.ExportsStorage,
	profiles ProfileSource,
	transcripts TranscriptSource,
	blobStore blob.Store,
) *Service {
	return &Service{
		exportsStorage: exportsStorage,
		profiles:       profiles,
		transcripts:    transcripts,
		blobStore:      blobStore,
		now:            time.Now,
	}
}

// CreateExport renders the plan or the transcript and stores it in the blob store.
// Upload failures are recorded as a failed export and reported with ErrExportFailed.
func (s *Service) CreateExport(ctx context.Context, req CreateExportRequest) (*Export, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatTXT
	}
	if kind != KindPlan && kind != KindChat {
		return nil, ErrInvalidKind
	}
	if format != FormatTXT && format != FormatPDF {
		return nil, ErrInvalidFormat
	}

	now := s.now()
	title, text, err := s.buildText(ctx, kind, now)
	if err != nil {
		return nil, err
	}

	data, err := Render(format, title, text)
	if err != nil {
		return nil, err
	}

	owner := userctx.OwnerID(ctx)
	id := uuid.New()
	meta := &storage.ExportMeta{
		ID:          id,
		OwnerUserID: owner,
		Kind:        kind,
		Format:      format,
		ObjectKey:   blob.ExportKey(owner, id, format),
		Status:      StatusReady,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	size, putErr := s.blobStore.Put(ctx, blob.File{
		Key:         meta.ObjectKey,
		Filename:    toExport(meta).Filename(),
		ContentType: contentType(format),
		Data:        data,
	})
	if putErr != nil {
		msg := putErr.Error()
		meta.Status = StatusFailed
		meta.Error = &msg
		log.Printf("WARN exports: upload failed owner=%s id=%s: %v", owner, id, putErr)
	} else {
		meta.SizeBytes = size
	}

	if err := s.exportsStorage.CreateExport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save export metadata: %w", err)
	}
	metrics.IncExport(kind, format, meta.Status)

	if putErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, putErr)
	}

	log.Printf("INFO exports: created owner=%s id=%s kind=%s format=%s size=%d", owner, id, kind, format, size)
	return toExport(meta), nil
}

func (s *Service) buildText(ctx context.Context, kind string, now time.Time) (title, text string, err error) {
	switch kind {
	case KindPlan:
		p, err := s.profiles.Current(ctx)
		if err != nil {
			return "", "", err
		}
		return "Personalized Health Plan", PlanText(*p), nil
	default:
		turns, err := s.transcripts.Turns(ctx)
		if err != nil {
			return "", "", fmt.Errorf("failed to load transcript: %w", err)
		}
		text, err := ChatText(turns, now)
		if err != nil {
			return "", "", err
		}
		return "Health Chatbot Conversation History", text, nil
	}
}

// GetExport retrieves an export owned by the caller
func (s *Service) GetExport(ctx context.Context, id uuid.UUID) (*Export, error) {
	meta, err := s.exportsStorage.GetExport(ctx, userctx.OwnerID(ctx), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return toExport(meta), nil
}

// ListExports lists the caller's exports, newest first
func (s *Service) ListExports(ctx context.Context, limit, offset int) ([]Export, error) {
	metaList, err := s.exportsStorage.ListExports(ctx, userctx.OwnerID(ctx), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	exports := make([]Export, len(metaList))
	for i := range metaList {
		exports[i] = *toExport(&metaList[i])
	}
	return exports, nil
}

// DeleteExport removes the object and the metadata
func (s *Service) DeleteExport(ctx context.Context, id uuid.UUID) error {
	export, err := s.GetExport(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobStore.Delete(ctx, export.ObjectKey); err != nil {
		log.Printf("WARN exports: failed to delete object key=%s: %v", export.ObjectKey, err)
	}

	if err := s.exportsStorage.DeleteExport(ctx, userctx.OwnerID(ctx), id); err != nil {
		return fmt.Errorf("failed to delete export metadata: %w", err)
	}
	return nil
}

// PresignedURL returns a direct object URL, or "" when the blob store
// cannot presign and the API has to stream the data itself.
func (s *Service) PresignedURL(ctx context.Context, export *Export) (string, error) {
	url, err := s.blobStore.DownloadURL(ctx, export.ObjectKey, export.Filename())
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// ExportData reads the stored bytes.
func (s *Service) ExportData(ctx context.Context, export *Export) ([]byte, error) {
	if export.Status != StatusReady {
		return nil, ErrExportNotFound
	}
	data, err := s.blobStore.Get(ctx, export.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return data, nil
}

func toExport(meta *storage.ExportMeta) *Export {
	return &Export{
		ID:        meta.ID,
		Kind:      meta.Kind,
		Format:    meta.Format,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}
}
