package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHistoryStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresHistoryStorage(pool *pgxpool.Pool) *PostgresHistoryStorage {
	return &PostgresHistoryStorage{pool: pool}
}

func (s *PostgresHistoryStorage) LoadHistory(ctx context.Context, ownerUserID string) ([]storage.HistoryRecord, error) {
	const query = `
		SELECT recorded_at, bmi, category, weight, height
		FROM bmi_history
		WHERE owner_user_id = $1
		ORDER BY position ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []storage.HistoryRecord{}
	for rows.Next() {
		var r storage.HistoryRecord
		if err := rows.Scan(&r.Date, &r.BMI, &r.Category, &r.Weight, &r.Height); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveHistory replaces the owner's rows in one transaction, mirroring the
// whole-file rewrite of the JSON store.
func (s *PostgresHistoryStorage) SaveHistory(ctx context.Context, ownerUserID string, records []storage.HistoryRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bmi_history WHERE owner_user_id = $1`, ownerUserID); err != nil {
		return err
	}

	const insert = `
		INSERT INTO bmi_history (id, owner_user_id, position, recorded_at, bmi, category, weight, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, r := range records {
		if _, err := tx.Exec(ctx, insert,
			uuid.New(),
			ownerUserID,
			i,
			r.Date,
			r.BMI,
			r.Category,
			r.Weight,
			r.Height,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
