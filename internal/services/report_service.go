package services

import (
	"context"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/caching"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/rendering"
	"github.com/Tushar365/reportappmedghor/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultPopularLimit = 10
	MaxPopularLimit     = 100
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DocumentRenderer turns a ReportSpec into PDF bytes.
type DocumentRenderer interface {
	Render(spec models.ReportSpec) ([]byte, error)
}

// Document is a rendered file ready to be sent to a client.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	// URL is a presigned link to the stored copy, empty when none was stored.
	URL string
}

type GeneratedReport struct {
	Report   *models.SavedReport
	Document *Document
}

type ReportService interface {
	Generate(ctx context.Context, ownerID *uuid.UUID, spec models.ReportSpec) (*GeneratedReport, error)
	List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error)
	Get(ctx context.Context, id int64) (*models.SavedReport, error)
	Delete(ctx context.Context, id int64) error
	RenderSaved(ctx context.Context, id int64, rateColumnLabel string) (*Document, error)
	ExportSpreadsheet(ctx context.Context, id int64, rateColumnLabel string) (*Document, error)
	TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error)
	WarmPopularProducts(ctx context.Context) error
	PurgeDocuments(ctx context.Context, olderThan time.Duration) (int, error)
}

type ReportServiceConfig struct {
	ContactNumber string
	URLExpiry     time.Duration
	PopularTTL    time.Duration
}

type reportService struct {
	reportRepo repositories.ReportRepository
	usageRepo  repositories.ProductUsageRepository
	renderer   DocumentRenderer
	storage    DocumentStorage
	cacheSvc   caching.CacheService
	cfg        ReportServiceConfig
	now        func() time.Time
}

// NewReportService wires the renderer and the store together. storage may
// be nil, in which case generated documents are not kept.
func NewReportService(reportRepo repositories.ReportRepository, usageRepo repositories.ProductUsageRepository,
	renderer DocumentRenderer, storage DocumentStorage, cacheSvc caching.CacheService, cfg ReportServiceConfig) ReportService {
	if cfg.ContactNumber == "" {
		cfg.ContactNumber = models.DefaultContactNumber
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 24 * time.Hour
	}
	if cfg.PopularTTL <= 0 {
		cfg.PopularTTL = 15 * time.Minute
	}
	return &reportService{
		reportRepo: reportRepo,
		usageRepo:  usageRepo,
		renderer:   renderer,
		storage:    storage,
		cacheSvc:   cacheSvc,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Generate renders the sheet and then persists it. Nothing is saved when
// rendering fails.
func (s *reportService) Generate(ctx context.Context, ownerID *uuid.UUID, spec models.ReportSpec) (*GeneratedReport, error) {
	logger := zerolog.Ctx(ctx)
	if spec.ContactNumber == "" {
		spec.ContactNumber = s.cfg.ContactNumber
	}

	data, err := s.renderer.Render(spec)
	if err != nil {
		return nil, err
	}

	report := &models.SavedReport{
		StartDate: spec.StartDate,
		EndDate:   spec.EndDate,
		BrandName: spec.BrandName,
		Lines:     append([]models.ProductLine(nil), spec.Lines...),
		OwnerID:   ownerID,
	}
	if _, err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}
	logger.Info().Int64("report_id", report.ID).Int("lines", len(report.Lines)).Msg("report saved")

	s.invalidatePopular(ctx)

	doc := &Document{
		Filename:    rendering.FocusItemsFilename(spec.StartDate, spec.EndDate),
		ContentType: pdfContentType,
		Data:        data,
	}
	doc.URL = s.store(ctx, report.ID, doc)

	return &GeneratedReport{Report: report, Document: doc}, nil
}

// store keeps a copy of doc. The report is already committed, so failures
// are logged and an empty URL is returned.
func (s *reportService) store(ctx context.Context, id int64, doc *Document) string {
	if s.storage == nil {
		return ""
	}
	logger := zerolog.Ctx(ctx)
	object := ReportObjectName(id, doc.Filename)
	if err := s.storage.Upload(ctx, object, doc.Data, doc.ContentType); err != nil {
		logger.Warn().Err(err).Str("object", object).Msg("failed to store document")
		return ""
	}
	url, err := s.storage.PresignedURL(ctx, object, s.cfg.URLExpiry)
	if err != nil {
		logger.Warn().Err(err).Str("object", object).Msg("failed to presign document url")
		return ""
	}
	return url
}

func (s *reportService) invalidatePopular(ctx context.Context) {
	if err := s.cacheSvc.InvalidatePopularProducts(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate popular products cache")
	}
}

func (s *reportService) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error) {
	return s.reportRepo.List(ctx, ownerID)
}

func (s *reportService) Get(ctx context.Context, id int64) (*models.SavedReport, error) {
	return s.reportRepo.Get(ctx, id)
}

// Delete removes the report and any stored documents. Usage tallies stay.
func (s *reportService) Delete(ctx context.Context, id int64) error {
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.storage != nil {
		if _, err := s.storage.DeletePrefix(ctx, ReportObjectPrefix(id)); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("report_id", id).Msg("failed to delete stored documents")
		}
	}
	return nil
}

func (s *reportService) RenderSaved(ctx context.Context, id int64, rateColumnLabel string) (*Document, error) {
	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.renderer.Render(report.Spec(rateColumnLabel, s.cfg.ContactNumber))
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    rendering.SavedReportFilename(id),
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}

func (s *reportService) ExportSpreadsheet(ctx context.Context, id int64, rateColumnLabel string) (*Document, error) {
	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := rendering.Spreadsheet(report.Spec(rateColumnLabel, s.cfg.ContactNumber))
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    rendering.SpreadsheetFilename(id),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

// TopProducts serves quick-add suggestions, from cache when possible.
func (s *reportService) TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	logger := zerolog.Ctx(ctx)
	cached, err := s.cacheSvc.GetPopularProducts(ctx, limit)
	if err != nil {
		logger.Warn().Err(err).Msg("popular products cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	usages, err := s.usageRepo.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	if usages == nil {
		usages = []*models.ProductUsage{}
	}
	if err := s.cacheSvc.SetPopularProducts(ctx, limit, usages, s.cfg.PopularTTL); err != nil {
		logger.Warn().Err(err).Msg("popular products cache write failed")
	}
	return usages, nil
}

// WarmPopularProducts refreshes the cached default suggestion list.
func (s *reportService) WarmPopularProducts(ctx context.Context) error {
	usages, err := s.usageRepo.TopProducts(ctx, DefaultPopularLimit)
	if err != nil {
		return err
	}
	if usages == nil {
		usages = []*models.ProductUsage{}
	}
	return s.cacheSvc.SetPopularProducts(ctx, DefaultPopularLimit, usages, s.cfg.PopularTTL)
}

// PurgeDocuments drops stored documents older than the given age. Saved
// reports are untouched and can always be re-rendered.
func (s *reportService) PurgeDocuments(ctx context.Context, olderThan time.Duration) (int, error) {
	if s.storage == nil {
		return 0, nil
	}
	return s.storage.PurgeOlderThan(ctx, "reports/", s.now().Add(-olderThan))
}
