package main

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/fdg312/bmi-planner/internal/dbmigrate"
	"github.com/fdg312/bmi-planner/internal/httpserver"
	"github.com/fdg312/bmi-planner/internal/metrics"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	target, run, err := dbmigrate.StartupTarget(cfg)
	if err != nil {
		log.Fatalf("FATAL startup migrations: %v", err)
	}
	if run {
		if target.Warning != "" {
			log.Printf("WARN startup migrations: %s", target.Warning)
		}
		log.Printf("INFO startup migrations: command=up using=%s", target.Source)
		if err := dbmigrate.Run("up", target.URL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("INFO startup migrations: completed")
	} else if cfg.RunMigrationsOnStartup {
		log.Printf("INFO startup migrations: skipped, no database configured")
	}

	validateProductionConfig(cfg)

	metrics.Register()

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL server: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are printed only as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Println("========== BMI Planner API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Database ----
	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)

	// ---- History ----
	log.Println("---- history ----")
	log.Printf("  history_mode     = %s (effective=%s)", cfg.HistoryMode, cfg.EffectiveHistoryMode())
	if cfg.EffectiveHistoryMode() == config.HistoryModeFile {
		log.Printf("  history_file     = %s", cfg.HistoryFile)
	}
	log.Printf("  history_max      = %d", cfg.HistoryMaxRecords)

	// ---- Hydration / chat ----
	log.Println("---- planner ----")
	log.Printf("  water_goal_ml    = %d", cfg.WaterGoalMl)
	log.Printf("  water_add_ml     = %d", cfg.IntakesWaterDefaultAddMl)
	log.Printf("  water_max_ml     = %d", cfg.IntakesMaxWaterMlPerDay)
	log.Printf("  chat_delay_ms    = %d", cfg.ChatReplyDelayMs)

	// ---- Auth ----
	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	// ---- Blob / S3 ----
	log.Println("---- exports ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Println("=====================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	// JWT_SECRET must not be default in production
	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	if isProd && cfg.EffectiveHistoryMode() == config.HistoryModePostgres && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: HISTORY_MODE=postgres but no DATABASE_URL configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
