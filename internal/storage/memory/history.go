package memory

import (
	"context"
	"sync"

	"github.com/fdg312/bmi-planner/internal/storage"
)

type HistoryMemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]storage.HistoryRecord
}

func NewHistoryMemoryStorage() *HistoryMemoryStorage {
	return &HistoryMemoryStorage{
		records: make(map[string][]storage.HistoryRecord),
	}
}

func (s *HistoryMemoryStorage) LoadHistory(ctx context.Context, ownerUserID string) ([]storage.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.records[ownerUserID]
	out := make([]storage.HistoryRecord, len(src))
	copy(out, src)
	return out, nil
}

func (s *HistoryMemoryStorage) SaveHistory(ctx context.Context, ownerUserID string, records []storage.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]storage.HistoryRecord, len(records))
	copy(cp, records)
	s.records[ownerUserID] = cp
	return nil
}
