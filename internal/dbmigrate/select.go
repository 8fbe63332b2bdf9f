package dbmigrate

import (
	"errors"
	"fmt"

	"github.com/fdg312/bmi-planner/internal/config"
)

// DefaultMigrationsDir is empty: migrations are read from the embedded FS.
const DefaultMigrationsDir = ""

var ErrNoDatabase = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")

// Target is the database a goose command runs against.
type Target struct {
	URL     string
	Source  string // env key the URL came from
	Warning string
}

// SelectDatabaseURL picks the migration target: DIRECT > DATABASE_URL > POOLED.
// DDL through a pooler works but is flagged. With requireDirect only
// DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (Target, error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return Target{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
		}
		return Target{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	}

	candidates := []Target{
		{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"},
		{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"},
		{URL: cfg.DatabaseURLPooled, Source: "DATABASE_URL_POOLED", Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"},
	}
	for _, c := range candidates {
		if c.URL != "" {
			return c, nil
		}
	}
	return Target{}, ErrNoDatabase
}

// StartupTarget decides whether the API migrates before serving.
// Without any database the planner keeps profiles in memory and history in
// a file, so there is nothing to migrate unless HISTORY_MODE=postgres asks
// for a database that is missing.
func StartupTarget(cfg *config.Config) (Target, bool, error) {
	if !cfg.RunMigrationsOnStartup {
		return Target{}, false, nil
	}

	target, err := SelectDatabaseURL(cfg, false)
	if errors.Is(err, ErrNoDatabase) {
		if cfg.HistoryMode == config.HistoryModePostgres {
			return Target{}, false, fmt.Errorf("HISTORY_MODE=postgres: %w", err)
		}
		return Target{}, false, nil
	}
	if err != nil {
		return Target{}, false, err
	}
	return target, true, nil
}
