package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	HistoryModeFile     = "file"
	HistoryModeMemory   = "memory"
	HistoryModePostgres = "postgres"
	HistoryModeAuto     = "auto"

	DefaultHistoryFile = "bmi_history.json"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Diagnostics classifies the S3 settings for startup logs.
func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	if missing := c.MissingRequired(); len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a loggable summary without secrets.
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// Config holds the service settings resolved from the environment.
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string
	DatabaseURLPooled string
	DatabaseURLDirect string

	RunMigrationsOnStartup bool

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Exports (plan / chat transcripts)
	Blob BlobConfig

	// BMI history
	HistoryMode       string // file | memory | postgres | auto
	HistoryFile       string
	HistoryMaxRecords int

	// Hydration
	WaterGoalMl              int
	IntakesWaterDefaultAddMl int
	IntakesMaxWaterMlPerDay  int

	// Chat
	ChatReplyDelayMs int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int
}

// Load reads the configuration from environment variables.
// Invalid or non-positive numbers fall back to their defaults with a warning.
func Load() *Config {
	env := firstNonEmpty(os.Getenv("APP_ENV"), os.Getenv("ENV"), "local")

	// Runtime traffic prefers the pooler; migrations pick their own URL (dbmigrate).
	dbPooled := envString("DATABASE_URL_POOLED", "")
	dbURL := envString("DATABASE_URL", "")
	dbDirect := envString("DATABASE_URL_DIRECT", "")

	blobMode := parseMode("EXPORTS_MODE", "", BlobModeLocal, BlobModeS3, BlobModeAuto)
	if blobMode == "" {
		blobMode = parseMode("BLOB_MODE", BlobModeLocal, BlobModeLocal, BlobModeS3, BlobModeAuto)
	}

	// 0 is allowed: answers are posted without the simulated latency.
	chatDelay := envInt("CHAT_REPLY_DELAY_MS", 1500)
	if chatDelay < 0 {
		chatDelay = 0
	}

	authMode := parseMode("AUTH_MODE", "none", "none", "dev")

	jwtSecret := envString("JWT_SECRET", "change_me")
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	return &Config{
		Env:               env,
		Port:              envPositive("PORT", 8080),
		LogLevel:          envString("LOG_LEVEL", "debug"),
		DatabaseURL:       firstNonEmpty(dbPooled, dbURL, dbDirect),
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		Blob: BlobConfig{
			Mode: blobMode,
			S3: S3Config{
				Endpoint:          envString("S3_ENDPOINT", ""),
				Region:            envString("S3_REGION", ""),
				Bucket:            envString("S3_BUCKET", ""),
				AccessKeyID:       envString("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey:   envString("S3_SECRET_ACCESS_KEY", ""),
				PresignTTLSeconds: envPositive("S3_PRESIGN_TTL_SECONDS", 900),
			},
		},

		HistoryMode: parseMode("HISTORY_MODE", HistoryModeAuto,
			HistoryModeFile, HistoryModeMemory, HistoryModePostgres, HistoryModeAuto),
		HistoryFile:       envString("HISTORY_FILE", DefaultHistoryFile),
		HistoryMaxRecords: envPositive("HISTORY_MAX_RECORDS", 20),

		WaterGoalMl:              envPositive("WATER_GOAL_ML", 2500),
		IntakesWaterDefaultAddMl: envPositive("INTAKES_WATER_DEFAULT_ADD_ML", 250),
		IntakesMaxWaterMlPerDay:  envInt("INTAKES_MAX_WATER_ML_PER_DAY", 8000),

		ChatReplyDelayMs: chatDelay,

		AuthMode:      authMode,
		AuthRequired:  authMode != "none" && parseBoolEnv("AUTH_REQUIRED"),
		JWTSecret:     jwtSecret,
		JWTIssuer:     envString("JWT_ISSUER", "bmi-planner"),
		JWTTTLMinutes: envPositive("JWT_TTL_MINUTES", 7*24*60),
	}
}

// EffectiveHistoryMode resolves "auto" against the database settings.
func (c *Config) EffectiveHistoryMode() string {
	if c.HistoryMode != HistoryModeAuto {
		return c.HistoryMode
	}
	if c.DatabaseURL != "" {
		return HistoryModePostgres
	}
	return HistoryModeFile
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// parseMode reads an enum-like env var. Unknown values log a warning and fall back.
func parseMode(key string, defaultVal string, allowed ...string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if mode == a {
			return mode
		}
	}
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
	return defaultVal
}

// envString returns the trimmed value of key, or def when it is empty.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envPositive is envInt for settings where zero or below makes no sense.
func envPositive(key string, def int) int {
	if v := envInt(key, def); v > 0 {
		return v
	}
	log.Printf("WARNING: %s must be positive, using %d", key, def)
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %d", key, s, defaultVal)
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
