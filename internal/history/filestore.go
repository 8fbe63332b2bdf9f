package history

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

var plainOwner = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore persists history as a JSON array, oldest first, indented with
// four spaces. The default owner uses the configured path as is; other owners
// get a sibling file suffixed with their id. Ids outside [A-Za-z0-9_-] are
// hex-encoded behind a "~" so distinct owners never share a file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) pathFor(owner string) string {
	if owner == "" || owner == userctx.DefaultOwner {
		return f.path
	}
	ext := filepath.Ext(f.path)
	base := strings.TrimSuffix(f.path, ext)
	return base + "-" + ownerSuffix(owner) + ext
}

func ownerSuffix(owner string) string {
	if plainOwner.MatchString(owner) {
		return owner
	}
	return "~" + hex.EncodeToString([]byte(owner))
}

// LoadHistory returns an empty slice for a missing file and ErrCorrupt for unparsable content.
func (f *FileStore) LoadHistory(ctx context.Context, ownerUserID string) ([]storage.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.pathFor(ownerUserID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []storage.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []storage.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []storage.HistoryRecord{}
	}
	return records, nil
}

// SaveHistory writes a temp file next to the target and renames it over.
func (f *FileStore) SaveHistory(ctx context.Context, ownerUserID string, records []storage.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if records == nil {
		records = []storage.HistoryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	target := f.pathFor(ownerUserID)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
