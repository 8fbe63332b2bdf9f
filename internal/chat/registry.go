package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/fdg312/bmi-planner/internal/ai"
	"github.com/fdg312/bmi-planner/internal/storage"
)

// transcriptLoadLimit bounds how much persisted history seeds a new session.
const transcriptLoadLimit = 500

// Registry keeps one Session per owner, created lazily from storage.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	provider ai.Provider
	store    storage.ChatStorage
}

func NewRegistry(provider ai.Provider, store storage.ChatStorage) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		provider: provider,
		store:    store,
	}
}

func (r *Registry) Get(ctx context.Context, owner string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[owner]; ok {
		return s, nil
	}

	var seed []Turn
	if r.store != nil {
		stored, err := r.store.Transcript(ctx, owner, transcriptLoadLimit)
		if err != nil {
			return nil, fmt.Errorf("load transcript: %w", err)
		}
		seed = make([]Turn, 0, len(stored))
		for _, t := range stored {
			seed = append(seed, Turn{ID: t.ID, Role: t.Role, Text: t.Text, Rule: t.Rule, CreatedAt: t.CreatedAt})
		}
	}

	s := NewSession(owner, r.provider, r.store, seed)
	r.sessions[owner] = s
	return s, nil
}

// Close stops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
