package memory

import (
	"github.com/fdg312/bmi-planner/internal/storage"
)

// MemoryStorage — in-memory реализация storage.Storage.
// Используется локально и в тестах; всё теряется при перезапуске.
type MemoryStorage struct {
	profiles *ProfilesMemoryStorage
	history  *HistoryMemoryStorage
	intakes  *IntakesMemoryStorage
	chat     *ChatMemoryStorage
	exports  *ExportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles: NewProfilesMemoryStorage(),
		history:  NewHistoryMemoryStorage(),
		intakes:  NewIntakesMemoryStorage(),
		chat:     NewChatMemoryStorage(),
		exports:  NewExportsMemoryStorage(),
	}
}

func (m *MemoryStorage) Profiles() storage.ProfilesStorage { return m.profiles }
func (m *MemoryStorage) History() storage.HistoryStorage   { return m.history }
func (m *MemoryStorage) Intakes() storage.IntakesStorage   { return m.intakes }
func (m *MemoryStorage) Chat() storage.ChatStorage         { return m.chat }
func (m *MemoryStorage) Exports() storage.ExportsStorage   { return m.exports }

func (m *MemoryStorage) Close() error {
	return nil
}
