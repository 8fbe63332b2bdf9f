package postgres

import (
	"context"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresProfilesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresProfilesStorage(pool *pgxpool.Pool) *PostgresProfilesStorage {
	return &PostgresProfilesStorage{pool: pool}
}

func (s *PostgresProfilesStorage) GetCurrentProfile(ctx context.Context, ownerUserID string) (*storage.ProfileSnapshot, error) {
	const query = `
		SELECT owner_user_id, name, weight, height, unit, age, gender,
		       activity_level, goal, diet, bmi, category, calculated_at
		FROM current_profiles
		WHERE owner_user_id = $1
	`

	var p storage.ProfileSnapshot
	err := s.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&p.OwnerUserID,
		&p.Name,
		&p.Weight,
		&p.Height,
		&p.Unit,
		&p.Age,
		&p.Gender,
		&p.ActivityLevel,
		&p.Goal,
		&p.Diet,
		&p.BMI,
		&p.Category,
		&p.CalculatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PostgresProfilesStorage) SaveCurrentProfile(ctx context.Context, p *storage.ProfileSnapshot) error {
	const query = `
		INSERT INTO current_profiles (
			owner_user_id, name, weight, height, unit, age, gender,
			activity_level, goal, diet, bmi, category, calculated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (owner_user_id) DO UPDATE SET
			name = EXCLUDED.name,
			weight = EXCLUDED.weight,
			height = EXCLUDED.height,
			unit = EXCLUDED.unit,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			diet = EXCLUDED.diet,
			bmi = EXCLUDED.bmi,
			category = EXCLUDED.category,
			calculated_at = EXCLUDED.calculated_at
	`

	_, err := s.pool.Exec(ctx, query,
		p.OwnerUserID,
		p.Name,
		p.Weight,
		p.Height,
		p.Unit,
		p.Age,
		p.Gender,
		p.ActivityLevel,
		p.Goal,
		p.Diet,
		p.BMI,
		p.Category,
		p.CalculatedAt,
	)
	return err
}

func (s *PostgresProfilesStorage) DeleteCurrentProfile(ctx context.Context, ownerUserID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM current_profiles WHERE owner_user_id = $1`, ownerUserID)
	return err
}
