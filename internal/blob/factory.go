package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/diet-planner/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// ReportStore is where generated report files end up.
// A nil Store means the bytes stay inline in the reports table.
type ReportStore struct {
	Store  Store
	Mode   string
	Reason string
}

// Inline reports whether report bytes are kept next to their metadata.
func (r ReportStore) Inline() bool {
	return r.Store == nil
}

func (r ReportStore) String() string {
	if r.Inline() {
		return fmt.Sprintf("mode=%s reports=inline (%s)", r.Mode, r.Reason)
	}
	return fmt.Sprintf("mode=%s reports=object-store (%s)", r.Mode, r.Reason)
}

// OpenReportStore resolves BLOB_MODE (local|s3|auto) for report files.
// auto degrades to inline storage when S3 is absent or fails to initialize;
// an explicit s3 mode fails instead.
func OpenReportStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (ReportStore, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	inline := func(reason string) (ReportStore, error) {
		rs := ReportStore{Mode: appcfg.BlobModeLocal, Reason: reason}
		logf(logger, "INFO reports.blob: %s", rs)
		return rs, nil
	}

	switch mode {
	case appcfg.BlobModeLocal:
		return inline("forced")

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logf(logger, "%s reports.blob: code=%s %s", level, code, msg)
			logf(logger, "INFO reports.blob: %s", cfg.S3.DiagnosticsSummary())
			return inline("auto, S3 not configured")
		}
		store, err := openS3(ctx, cfg.S3, logger)
		if err != nil {
			logf(logger, "WARN reports.blob: init_failed=%q, fallback=inline", err.Error())
			return inline("auto, S3 init failed")
		}
		rs := ReportStore{Store: store, Mode: appcfg.BlobModeS3, Reason: "auto, configured"}
		logf(logger, "INFO reports.blob: %s", rs)
		return rs, nil

	case appcfg.BlobModeS3:
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			logf(logger, "FATAL reports.blob: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL reports.blob: %s", cfg.S3.DiagnosticsSummary())
			return ReportStore{}, fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		store, err := openS3(ctx, cfg.S3, logger)
		if err != nil {
			logf(logger, "FATAL reports.blob: init_failed=%v", err)
			return ReportStore{}, fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		rs := ReportStore{Store: store, Mode: appcfg.BlobModeS3, Reason: "forced"}
		logf(logger, "INFO reports.blob: %s", rs)
		return rs, nil

	default:
		return ReportStore{}, fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func openS3(ctx context.Context, s3 appcfg.S3Config, logger Logger) (*S3Store, error) {
	logf(logger, "INFO reports.blob: code=s3_ready %s", s3.DiagnosticsSummary())
	return NewS3Store(ctx, s3.Endpoint, s3.Region, s3.Bucket, s3.AccessKeyID, s3.SecretAccessKey)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
