package memory

import (
	"context"
	"sync"

	"github.com/fdg312/bmi-planner/internal/storage"
)

type ProfilesMemoryStorage struct {
	mu       sync.RWMutex
	profiles map[string]storage.ProfileSnapshot
}

func NewProfilesMemoryStorage() *ProfilesMemoryStorage {
	return &ProfilesMemoryStorage{
		profiles: make(map[string]storage.ProfileSnapshot),
	}
}

func (s *ProfilesMemoryStorage) GetCurrentProfile(ctx context.Context, ownerUserID string) (*storage.ProfileSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[ownerUserID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *ProfilesMemoryStorage) SaveCurrentProfile(ctx context.Context, profile *storage.ProfileSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.OwnerUserID] = *profile
	return nil
}

func (s *ProfilesMemoryStorage) DeleteCurrentProfile(ctx context.Context, ownerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, ownerUserID)
	return nil
}
