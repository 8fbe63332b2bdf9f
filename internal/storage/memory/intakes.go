package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
)

// IntakesMemoryStorage — in-memory журнал воды
type IntakesMemoryStorage struct {
	mu     sync.RWMutex
	water  map[uuid.UUID]*storage.WaterIntake
	byUser map[string][]uuid.UUID // owner_user_id -> water_intake_ids
}

func NewIntakesMemoryStorage() *IntakesMemoryStorage {
	return &IntakesMemoryStorage{
		water:  make(map[uuid.UUID]*storage.WaterIntake),
		byUser: make(map[string][]uuid.UUID),
	}
}

func (s *IntakesMemoryStorage) AddWater(ctx context.Context, ownerUserID string, takenAt time.Time, amountMl int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intake := &storage.WaterIntake{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		TakenAt:     takenAt,
		AmountMl:    amountMl,
		CreatedAt:   time.Now(),
	}

	s.water[intake.ID] = intake
	s.byUser[ownerUserID] = append(s.byUser[ownerUserID], intake.ID)
	return nil
}

func (s *IntakesMemoryStorage) GetWaterDaily(ctx context.Context, ownerUserID string, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, id := range s.byUser[ownerUserID] {
		if intake, ok := s.water[id]; ok && intake.TakenAt.Format("2006-01-02") == date {
			total += intake.AmountMl
		}
	}
	return total, nil
}

func (s *IntakesMemoryStorage) ListWaterIntakes(ctx context.Context, ownerUserID string, date string, limit int) ([]storage.WaterIntake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.WaterIntake{}
	for _, id := range s.byUser[ownerUserID] {
		if intake, ok := s.water[id]; ok && intake.TakenAt.Format("2006-01-02") == date {
			result = append(result, *intake)
		}
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt.After(result[j].TakenAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *IntakesMemoryStorage) DeleteWaterDaily(ctx context.Context, ownerUserID string, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]uuid.UUID, 0, len(s.byUser[ownerUserID]))
	for _, id := range s.byUser[ownerUserID] {
		intake, ok := s.water[id]
		if !ok {
			continue
		}
		if intake.TakenAt.Format("2006-01-02") == date {
			delete(s.water, id)
			continue
		}
		kept = append(kept, id)
	}
	s.byUser[ownerUserID] = kept
	return nil
}
