package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

// Errors
var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must not be after to date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrReportNotFound   = errors.New("report not found")
)

const dateLayout = "2006-01-02"

// Service handles reports business logic
type Service struct {
	profiles        *profiles.Service
	plans           storage.DailyPlansStorage
	reportsStorage  storage.ReportsStorage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	presignTTL      int
	localMode       bool   // true if no blob store configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool
}

// NewService creates a new reports service. A nil blobStore keeps report
// content inline in the reports storage.
func NewService(
	profileService *profiles.Service,
	plans storage.DailyPlansStorage,
	reportsStorage storage.ReportsStorage,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	if maxRangeDays <= 0 {
		maxRangeDays = 90
	}
	if presignTTL <= 0 {
		presignTTL = 900
	}
	return &Service{
		profiles:        profileService,
		plans:           plans,
		reportsStorage:  reportsStorage,
		generator:       NewGenerator(),
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// MaxRangeDays returns the configured report range limit.
func (s *Service) MaxRangeDays() int {
	return s.maxRangeDays
}

// LocalMode reports whether content is served by the API itself.
func (s *Service) LocalMode() bool {
	return s.localMode
}

// CreateReport generates and stores a report of the handle's plans in [From, To].
func (s *Service) CreateReport(ctx context.Context, rawHandle string, req CreateReportRequest) (*storage.ReportMeta, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatPDF && format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}
	if int(toDate.Sub(fromDate).Hours()/24) > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	doc, _, err := s.profiles.Load(ctx, rawHandle)
	if err != nil {
		return nil, err
	}

	plans, err := s.plans.ListDailyPlans(ctx, doc.Handle, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily plans: %w", err)
	}

	data, err := s.generator.Generate(format, doc, req.From, req.To, plans)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		ID:        uuid.New(),
		Handle:    doc.Handle,
		Format:    format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			url.PathEscape(doc.Handle),
			req.From,
			req.To,
			report.ID.String(),
			format,
		)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	log.Printf("INFO reports: created id=%s handle=%s format=%s range=%s..%s size=%d",
		report.ID, report.Handle, report.Format, report.FromDate, report.ToDate, report.SizeBytes)
	return report, nil
}

// GetReport returns report metadata owned by the handle.
func (s *Service) GetReport(ctx context.Context, rawHandle string, id uuid.UUID) (*storage.ReportMeta, error) {
	handle, err := profiles.NormalizeHandle(rawHandle)
	if err != nil {
		return nil, err
	}
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if meta.Handle != handle {
		return nil, ErrReportNotFound
	}
	return meta, nil
}

// ListReports lists reports of the handle, newest first.
func (s *Service) ListReports(ctx context.Context, rawHandle string, limit, offset int) ([]storage.ReportMeta, error) {
	handle, err := profiles.NormalizeHandle(rawHandle)
	if err != nil {
		return nil, err
	}
	list, err := s.reportsStorage.ListReports(ctx, handle, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return list, nil
}

// DeleteReport removes the report metadata and its stored object.
func (s *Service) DeleteReport(ctx context.Context, rawHandle string, id uuid.UUID) error {
	meta, err := s.GetReport(ctx, rawHandle, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			log.Printf("WARN reports: failed to delete object key=%s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}

// DownloadURL returns where the report content can be fetched: the API
// download endpoint in local mode, otherwise a public or presigned object URL.
func (s *Service) DownloadURL(ctx context.Context, meta *storage.ReportMeta, baseURL string) (string, error) {
	if s.localMode {
		return fmt.Sprintf("%s/v1/profiles/%s/reports/%s/download",
			strings.TrimSuffix(baseURL, "/"), url.PathEscape(meta.Handle), meta.ID), nil
	}
	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}
	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}
	presigned, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presigned, nil
}

// ReportData returns the raw content and its content type.
func (s *Service) ReportData(ctx context.Context, meta *storage.ReportMeta) ([]byte, string, error) {
	contentType := contentTypeFor(meta.Format)
	if s.localMode || meta.ObjectKey == nil {
		return meta.Data, contentType, nil
	}
	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, "", ErrReportNotFound
		}
		return nil, "", fmt.Errorf("failed to fetch report: %w", err)
	}
	return data, contentType, nil
}

func (s *Service) toDTO(ctx context.Context, meta *storage.ReportMeta, baseURL string) ReportDTO {
	downloadURL, err := s.DownloadURL(ctx, meta, baseURL)
	if err != nil {
		log.Printf("WARN reports: download url id=%s: %v", meta.ID, err)
	}
	return ReportDTO{
		ID:          meta.ID,
		Handle:      meta.Handle,
		Format:      meta.Format,
		From:        meta.FromDate,
		To:          meta.ToDate,
		DownloadURL: downloadURL,
		SizeBytes:   meta.SizeBytes,
		Status:      meta.Status,
		CreatedAt:   meta.CreatedAt,
	}
}
