package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация storage.Storage
type PostgresStorage struct {
	pool     *pgxpool.Pool
	profiles *PostgresProfilesStorage
	history  *PostgresHistoryStorage
	intakes  *PostgresIntakesStorage
	chat     *PostgresChatStorage
	exports  *PostgresExportsStorage
}

// New открывает пул соединений и проверяет доступность базы.
// Схема создаётся миграциями (cmd/migrate или RUN_MIGRATIONS_ON_STARTUP).
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:     pool,
		profiles: NewPostgresProfilesStorage(pool),
		history:  NewPostgresHistoryStorage(pool),
		intakes:  NewPostgresIntakesStorage(pool),
		chat:     NewPostgresChatStorage(pool),
		exports:  NewPostgresExportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Profiles() storage.ProfilesStorage { return p.profiles }
func (p *PostgresStorage) History() storage.HistoryStorage   { return p.history }
func (p *PostgresStorage) Intakes() storage.IntakesStorage   { return p.intakes }
func (p *PostgresStorage) Chat() storage.ChatStorage         { return p.chat }
func (p *PostgresStorage) Exports() storage.ExportsStorage   { return p.exports }

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// notFound maps pgx.ErrNoRows to storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
