package dbmigrate

import (
	"errors"
	"testing"

	"github.com/fdg312/bmi-planner/internal/config"
)

func TestSelectDatabaseURL(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		requireDirect bool
		wantURL       string
		wantSource    string
		wantWarning   bool
		wantErr       bool
	}{
		{
			name: "direct wins",
			cfg: config.Config{
				DatabaseURLDirect: "postgres://planner@db:5432/bmi",
				DatabaseURLRaw:    "postgres://planner@db-url:5432/bmi",
				DatabaseURLPooled: "postgres://planner@pooler:6432/bmi",
			},
			wantURL:    "postgres://planner@db:5432/bmi",
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name: "plain url before pooled",
			cfg: config.Config{
				DatabaseURLRaw:    "postgres://planner@db-url:5432/bmi",
				DatabaseURLPooled: "postgres://planner@pooler:6432/bmi",
			},
			wantURL:    "postgres://planner@db-url:5432/bmi",
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled only is flagged",
			cfg:         config.Config{DatabaseURLPooled: "postgres://planner@pooler:6432/bmi"},
			wantURL:     "postgres://planner@pooler:6432/bmi",
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
		{
			name:          "require direct rejects url",
			cfg:           config.Config{DatabaseURLRaw: "postgres://planner@db-url:5432/bmi"},
			requireDirect: true,
			wantErr:       true,
		},
		{
			name:    "nothing configured",
			cfg:     config.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := SelectDatabaseURL(&tt.cfg, tt.requireDirect)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got target %+v", target)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.URL != tt.wantURL || target.Source != tt.wantSource {
				t.Fatalf("expected %s from %s, got %s from %s", tt.wantURL, tt.wantSource, target.URL, target.Source)
			}
			if (target.Warning != "") != tt.wantWarning {
				t.Fatalf("unexpected warning %q", target.Warning)
			}
		})
	}
}

func TestStartupTarget(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantRun bool
		wantErr error
	}{
		{
			name: "disabled",
			cfg:  config.Config{DatabaseURLRaw: "postgres://planner@db:5432/bmi"},
		},
		{
			name: "file history without database skips",
			cfg:  config.Config{RunMigrationsOnStartup: true, HistoryMode: config.HistoryModeFile},
		},
		{
			name: "auto history without database skips",
			cfg:  config.Config{RunMigrationsOnStartup: true, HistoryMode: config.HistoryModeAuto},
		},
		{
			name:    "postgres history needs a database",
			cfg:     config.Config{RunMigrationsOnStartup: true, HistoryMode: config.HistoryModePostgres},
			wantErr: ErrNoDatabase,
		},
		{
			name:    "database configured runs",
			cfg:     config.Config{RunMigrationsOnStartup: true, HistoryMode: config.HistoryModeAuto, DatabaseURLRaw: "postgres://planner@db:5432/bmi"},
			wantRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, run, err := StartupTarget(&tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if run != tt.wantRun {
				t.Fatalf("expected run=%v, got %v", tt.wantRun, run)
			}
			if run && target.Source != "DATABASE_URL" {
				t.Fatalf("expected DATABASE_URL source, got %s", target.Source)
			}
		})
	}
}
