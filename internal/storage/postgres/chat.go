package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChatStorage keeps transcripts in chat_turns; seq preserves
// append order when two turns share a timestamp.
type PostgresChatStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresChatStorage(pool *pgxpool.Pool) *PostgresChatStorage {
	return &PostgresChatStorage{pool: pool}
}

func (s *PostgresChatStorage) AppendTurn(ctx context.Context, turn storage.TranscriptTurn) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_turns (id, owner_user_id, role, text, rule, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		turn.ID, turn.OwnerUserID, turn.Role, turn.Text, turn.Rule, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

func (s *PostgresChatStorage) Transcript(ctx context.Context, ownerUserID string, limit int) ([]storage.TranscriptTurn, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_user_id, role, text, rule, created_at
		FROM (
			SELECT * FROM chat_turns
			WHERE owner_user_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) latest
		ORDER BY seq`,
		ownerUserID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}

	turns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.TranscriptTurn, error) {
		var t storage.TranscriptTurn
		err := row.Scan(&t.ID, &t.OwnerUserID, &t.Role, &t.Text, &t.Rule, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return turns, nil
}

func (s *PostgresChatStorage) ClearTranscript(ctx context.Context, ownerUserID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM chat_turns WHERE owner_user_id = $1`, ownerUserID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}
