package postgres

import (
	"context"
	"time"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExportsStorage — метаданные выгрузок; сами файлы лежат в blob store.
type PostgresExportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresExportsStorage(pool *pgxpool.Pool) *PostgresExportsStorage {
	return &PostgresExportsStorage{pool: pool}
}

func (s *PostgresExportsStorage) CreateExport(ctx context.Context, e *storage.ExportMeta) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
		INSERT INTO exports (id, owner_user_id, kind, format, object_key, size_bytes, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		e.ID,
		e.OwnerUserID,
		e.Kind,
		e.Format,
		e.ObjectKey,
		e.SizeBytes,
		e.Status,
		e.Error,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (s *PostgresExportsStorage) GetExport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ExportMeta, error) {
	query := `
		SELECT id, owner_user_id, kind, format, object_key, size_bytes, status, error, created_at, updated_at
		FROM exports
		WHERE id = $1 AND owner_user_id = $2
	`

	var e storage.ExportMeta
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.Kind,
		&e.Format,
		&e.ObjectKey,
		&e.SizeBytes,
		&e.Status,
		&e.Error,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *PostgresExportsStorage) ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ExportMeta, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, owner_user_id, kind, format, object_key, size_bytes, status, error, created_at, updated_at
		FROM exports
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []storage.ExportMeta{}
	for rows.Next() {
		var e storage.ExportMeta
		if err := rows.Scan(
			&e.ID,
			&e.OwnerUserID,
			&e.Kind,
			&e.Format,
			&e.ObjectKey,
			&e.SizeBytes,
			&e.Status,
			&e.Error,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

func (s *PostgresExportsStorage) DeleteExport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM exports WHERE id = $1 AND owner_user_id = $2`, id, ownerUserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
