package postgres

import (
	"context"
	"time"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIntakesStorage — журнал воды в Postgres
type PostgresIntakesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresIntakesStorage(pool *pgxpool.Pool) *PostgresIntakesStorage {
	return &PostgresIntakesStorage{pool: pool}
}

func (s *PostgresIntakesStorage) AddWater(ctx context.Context, ownerUserID string, takenAt time.Time, amountMl int) error {
	query := `
		INSERT INTO water_intakes (id, owner_user_id, taken_at, amount_ml, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, uuid.New(), ownerUserID, takenAt, amountMl, time.Now())
	return err
}

func (s *PostgresIntakesStorage) GetWaterDaily(ctx context.Context, ownerUserID string, date string) (int, error) {
	query := `
		SELECT COALESCE(SUM(amount_ml), 0)
		FROM water_intakes
		WHERE owner_user_id = $1 AND DATE(taken_at) = $2
	`

	var total int
	err := s.pool.QueryRow(ctx, query, ownerUserID, date).Scan(&total)
	return total, err
}

func (s *PostgresIntakesStorage) ListWaterIntakes(ctx context.Context, ownerUserID string, date string, limit int) ([]storage.WaterIntake, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, owner_user_id, taken_at, amount_ml, created_at
		FROM water_intakes
		WHERE owner_user_id = $1 AND DATE(taken_at) = $2
		ORDER BY taken_at DESC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intakes := []storage.WaterIntake{}
	for rows.Next() {
		var intake storage.WaterIntake
		if err := rows.Scan(
			&intake.ID,
			&intake.OwnerUserID,
			&intake.TakenAt,
			&intake.AmountMl,
			&intake.CreatedAt,
		); err != nil {
			return nil, err
		}
		intakes = append(intakes, intake)
	}
	return intakes, rows.Err()
}

func (s *PostgresIntakesStorage) DeleteWaterDaily(ctx context.Context, ownerUserID string, date string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM water_intakes WHERE owner_user_id = $1 AND DATE(taken_at) = $2`,
		ownerUserID, date,
	)
	return err
}
