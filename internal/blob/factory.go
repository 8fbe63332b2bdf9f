package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/bmi-planner/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore picks where exports live from BLOB_MODE:
//
//	local  in-process memory, downloads streamed by the API
//	s3     S3-compatible bucket, downloads redirect to a presigned URL; incomplete config is fatal
//	auto   s3 when fully configured, otherwise local
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		return local(logger, "forced")

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
			logf(logger, "INFO blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return local(logger, "auto, S3 not configured")
		}
		store, err := newS3(ctx, cfg.S3, logger)
		if err != nil {
			logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
			return local(logger, "auto, S3 init failed")
		}
		logf(logger, "INFO blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		store, err := newS3(ctx, cfg.S3, logger)
		if err != nil {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		logf(logger, "INFO blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func local(logger Logger, reason string) (Store, string, error) {
	logf(logger, "INFO blob: mode=local (%s)", reason)
	return NewMemoryStore(), appcfg.BlobModeLocal, nil
}

func newS3(ctx context.Context, cfg appcfg.S3Config, logger Logger) (*S3Store, error) {
	logf(logger, "INFO blob.s3: code=s3_ready %s", cfg.DiagnosticsSummary())
	return NewS3Store(ctx, cfg)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
