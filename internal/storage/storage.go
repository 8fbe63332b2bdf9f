package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается всеми реализациями, когда записи нет.
var ErrNotFound = errors.New("not found")

// Storage объединяет все хранилища сервиса.
type Storage interface {
	Profiles() ProfilesStorage
	History() HistoryStorage
	Intakes() IntakesStorage
	Chat() ChatStorage
	Exports() ExportsStorage
	Close() error
}

// ProfileSnapshot — последний валидный профиль пользователя, сохранённый после расчёта BMI.
// Перезаписывается целиком при каждом новом расчёте.
type ProfileSnapshot struct {
	OwnerUserID   string
	Name          string
	Weight        float64
	Height        float64 // metres (metric) or total inches (imperial)
	Unit          string
	Age           int
	Gender        string
	ActivityLevel string
	Goal          string
	Diet          string
	BMI           float64
	Category      string
	CalculatedAt  time.Time
}

// ProfilesStorage хранит текущий профиль каждого пользователя.
type ProfilesStorage interface {
	// GetCurrentProfile возвращает ErrNotFound, если расчёта ещё не было.
	GetCurrentProfile(ctx context.Context, ownerUserID string) (*ProfileSnapshot, error)

	SaveCurrentProfile(ctx context.Context, profile *ProfileSnapshot) error

	DeleteCurrentProfile(ctx context.Context, ownerUserID string) error
}

// HistoryRecord — одна запись истории BMI. Weight/Height уже отформатированы
// в единицах, введённых пользователем ("70 kg", "5 ft 9 in").
type HistoryRecord struct {
	Date     string  `json:"date"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Weight   string  `json:"weight"`
	Height   string  `json:"height"`
}

// HistoryStorage читает и перезаписывает историю пользователя целиком,
// от старых записей к новым.
type HistoryStorage interface {
	LoadHistory(ctx context.Context, ownerUserID string) ([]HistoryRecord, error)

	SaveHistory(ctx context.Context, ownerUserID string, records []HistoryRecord) error
}

// WaterIntake — запись о приёме воды
type WaterIntake struct {
	ID          uuid.UUID
	OwnerUserID string
	TakenAt     time.Time
	AmountMl    int
	CreatedAt   time.Time
}

// IntakesStorage хранит журнал воды.
type IntakesStorage interface {
	AddWater(ctx context.Context, ownerUserID string, takenAt time.Time, amountMl int) error

	// GetWaterDaily возвращает сумму за день (date в формате YYYY-MM-DD).
	GetWaterDaily(ctx context.Context, ownerUserID string, date string) (int, error)

	ListWaterIntakes(ctx context.Context, ownerUserID string, date string, limit int) ([]WaterIntake, error)

	DeleteWaterDaily(ctx context.Context, ownerUserID string, date string) error
}

// TranscriptTurn — одна реплика переписки с ассистентом.
// ID и CreatedAt назначает сессия, хранилище их только сохраняет.
type TranscriptTurn struct {
	ID          uuid.UUID
	OwnerUserID string
	Role        string // "user" | "bot"
	Text        string
	Rule        string // сработавшее правило, только у ответов бота
	CreatedAt   time.Time
}

// ChatStorage хранит переписку, по одной ленте на владельца.
type ChatStorage interface {
	AppendTurn(ctx context.Context, turn TranscriptTurn) error

	// Transcript возвращает последние limit реплик, от старых к новым.
	Transcript(ctx context.Context, ownerUserID string, limit int) ([]TranscriptTurn, error)

	ClearTranscript(ctx context.Context, ownerUserID string) error
}

// ExportMeta — метаданные выгрузки плана или переписки
type ExportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	Kind        string // "plan" or "chat"
	Format      string // "txt" or "pdf"
	ObjectKey   string
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExportsStorage interface {
	CreateExport(ctx context.Context, export *ExportMeta) error

	// GetExport возвращает ErrNotFound для чужих и несуществующих выгрузок.
	GetExport(ctx context.Context, ownerUserID string, id uuid.UUID) (*ExportMeta, error)

	// ListExports сортирует по created_at DESC.
	ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]ExportMeta, error)

	DeleteExport(ctx context.Context, ownerUserID string, id uuid.UUID) error
}
