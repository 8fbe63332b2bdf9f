package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
)

// ExportsMemoryStorage — in-memory хранилище метаданных выгрузок
type ExportsMemoryStorage struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]*storage.ExportMeta
}

func NewExportsMemoryStorage() *ExportsMemoryStorage {
	return &ExportsMemoryStorage{
		exports: make(map[uuid.UUID]*storage.ExportMeta),
	}
}

func (s *ExportsMemoryStorage) CreateExport(ctx context.Context, export *storage.ExportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	now := time.Now()
	export.CreatedAt = now
	export.UpdatedAt = now

	clone := *export
	s.exports[export.ID] = &clone
	return nil
}

func (s *ExportsMemoryStorage) GetExport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ExportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	export, ok := s.exports[id]
	if !ok || export.OwnerUserID != ownerUserID {
		return nil, storage.ErrNotFound
	}

	clone := *export
	return &clone, nil
}

func (s *ExportsMemoryStorage) ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ExportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := []storage.ExportMeta{}
	for _, e := range s.exports {
		if e.OwnerUserID == ownerUserID {
			filtered = append(filtered, *e)
		}
	}

	// created_at DESC
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if offset > len(filtered) {
		return []storage.ExportMeta{}, nil
	}
	end := len(filtered)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return filtered[offset:end], nil
}

func (s *ExportsMemoryStorage) DeleteExport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	export, ok := s.exports[id]
	if !ok || export.OwnerUserID != ownerUserID {
		return storage.ErrNotFound
	}

	delete(s.exports, id)
	return nil
}
