package memory

import (
	"context"
	"sync"

	"github.com/fdg312/bmi-planner/internal/storage"
)

// ChatMemoryStorage keeps one append-only transcript per owner.
type ChatMemoryStorage struct {
	mu          sync.RWMutex
	transcripts map[string][]storage.TranscriptTurn
}

func NewChatMemoryStorage() *ChatMemoryStorage {
	return &ChatMemoryStorage{transcripts: make(map[string][]storage.TranscriptTurn)}
}

func (s *ChatMemoryStorage) AppendTurn(ctx context.Context, turn storage.TranscriptTurn) error {
	s.mu.Lock()
	s.transcripts[turn.OwnerUserID] = append(s.transcripts[turn.OwnerUserID], turn)
	s.mu.Unlock()
	return nil
}

func (s *ChatMemoryStorage) Transcript(ctx context.Context, ownerUserID string, limit int) ([]storage.TranscriptTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.transcripts[ownerUserID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]storage.TranscriptTurn{}, turns...), nil
}

func (s *ChatMemoryStorage) ClearTranscript(ctx context.Context, ownerUserID string) error {
	s.mu.Lock()
	delete(s.transcripts, ownerUserID)
	s.mu.Unlock()
	return nil
}
