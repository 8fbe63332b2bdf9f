package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps exports in process memory for BLOB_MODE=local.
// It has no public endpoint, so downloads are streamed through the API.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]File
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]File)}
}

func (m *MemoryStore) Put(ctx context.Context, f File) (int64, error) {
	f.Data = append([]byte(nil), f.Data...)

	m.mu.Lock()
	m.files[f.Key] = f
	m.mu.Unlock()

	return int64(len(f.Data)), nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	f, ok := m.files[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), f.Data...), nil
}

func (m *MemoryStore) DownloadURL(ctx context.Context, key, filename string) (string, error) {
	return "", nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// Len reports how many files are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
