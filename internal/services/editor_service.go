package services

import (
	"context"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/caching"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/repositories"
	"github.com/Tushar365/reportappmedghor/internal/session"
)

// EditorService keeps each user's working list of lines in the cache.
type EditorService interface {
	Lines(ctx context.Context, userID string) ([]models.ProductLine, error)
	Add(ctx context.Context, userID string, line models.ProductLine) ([]models.ProductLine, error)
	QuickAdd(ctx context.Context, userID, productName string) ([]models.ProductLine, error)
	Remove(ctx context.Context, userID string, index int) ([]models.ProductLine, error)
	Clear(ctx context.Context, userID string) error
	LoadReport(ctx context.Context, userID string, reportID int64) ([]models.ProductLine, error)
}

type editorService struct {
	cacheSvc   caching.CacheService
	reportRepo repositories.ReportRepository
	usageRepo  repositories.ProductUsageRepository
	ttl        time.Duration
}

func NewEditorService(cacheSvc caching.CacheService, reportRepo repositories.ReportRepository,
	usageRepo repositories.ProductUsageRepository, ttl time.Duration) EditorService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &editorService{cacheSvc: cacheSvc, reportRepo: reportRepo, usageRepo: usageRepo, ttl: ttl}
}

func (s *editorService) load(ctx context.Context, userID string) (*session.Editor, error) {
	lines, err := s.cacheSvc.GetEditorLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return session.NewEditor(lines), nil
}

func (s *editorService) save(ctx context.Context, userID string, e *session.Editor) ([]models.ProductLine, error) {
	lines := e.Lines()
	if err := s.cacheSvc.SetEditorLines(ctx, userID, lines, s.ttl); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *editorService) Lines(ctx context.Context, userID string) ([]models.ProductLine, error) {
	e, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.Lines(), nil
}

func (s *editorService) Add(ctx context.Context, userID string, line models.ProductLine) ([]models.ProductLine, error) {
	e, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.Append(line); err != nil {
		return nil, err
	}
	return s.save(ctx, userID, e)
}

// QuickAdd appends a previously used product with its last rate.
func (s *editorService) QuickAdd(ctx context.Context, userID, productName string) ([]models.ProductLine, error) {
	usage, err := s.usageRepo.GetByName(ctx, productName)
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, userID, models.ProductLine{Name: usage.ProductName, Rate: usage.LastRate})
}

func (s *editorService) Remove(ctx context.Context, userID string, index int) ([]models.ProductLine, error) {
	e, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.Remove(index); err != nil {
		return nil, err
	}
	return s.save(ctx, userID, e)
}

// Clear drops the working list. An absent key reads back as an empty list.
func (s *editorService) Clear(ctx context.Context, userID string) error {
	return s.cacheSvc.DeleteEditorLines(ctx, userID)
}

// LoadReport replaces the working list with a copy of a saved report's lines.
func (s *editorService) LoadReport(ctx context.Context, userID string, reportID int64) ([]models.ProductLine, error) {
	report, err := s.reportRepo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, userID, session.NewEditor(report.Lines))
}
