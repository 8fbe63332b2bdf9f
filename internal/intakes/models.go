package intakes

import (
	"time"

	"github.com/google/uuid"
)

// HydrationState — прогресс по воде за сегодня
type HydrationState struct {
	CurrentMl       int     `json:"current_ml"`
	GoalMl          int     `json:"goal_ml"`
	ProgressPercent float64 `json:"progress_percent"`
	Display         string  `json:"display"`
}

// AddWaterRequest — запрос на добавление воды. Пустой amount_ml означает
// количество по умолчанию (INTAKES_WATER_DEFAULT_ADD_ML).
type AddWaterRequest struct {
	AmountMl *int `json:"amount_ml,omitempty"`
}

// WaterIntakeDTO — DTO для записи о воде
type WaterIntakeDTO struct {
	ID        uuid.UUID `json:"id"`
	TakenAt   time.Time `json:"taken_at"`
	AmountMl  int       `json:"amount_ml"`
	CreatedAt time.Time `json:"created_at"`
}

// WaterResponse — ответ для GET/POST /v1/intakes/water
type WaterResponse struct {
	Date    string           `json:"date"`
	State   HydrationState   `json:"state"`
	Entries []WaterIntakeDTO `json:"entries"`
}

// ErrorResponse — стандартный формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
