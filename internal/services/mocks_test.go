package services

import (
	"context"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, report *models.SavedReport) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.SavedReport), args.Error(1)
}

func (m *MockReportRepository) Get(ctx context.Context, id int64) (*models.SavedReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedReport), args.Error(1)
}

func (m *MockReportRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductUsage), args.Error(1)
}

func (m *MockUsageRepository) GetByName(ctx context.Context, name string) (*models.ProductUsage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductUsage), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error {
	return m.Called(ctx, id, roles).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, email, fullName string) error {
	return m.Called(ctx, id, email, fullName).Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPopularProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductUsage), args.Error(1)
}

func (m *MockCacheService) SetPopularProducts(ctx context.Context, limit int, usages []*models.ProductUsage, ttl time.Duration) error {
	return m.Called(ctx, limit, usages, ttl).Error(0)
}

func (m *MockCacheService) InvalidatePopularProducts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) GetEditorLines(ctx context.Context, userID string) ([]models.ProductLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductLine), args.Error(1)
}

func (m *MockCacheService) SetEditorLines(ctx context.Context, userID string, lines []models.ProductLine, ttl time.Duration) error {
	return m.Called(ctx, userID, lines, ttl).Error(0)
}

func (m *MockCacheService) DeleteEditorLines(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	return m.Called(ctx, objectName, data, contentType).Error(0)
}

func (m *MockDocumentStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentStorage) PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error) {
	args := m.Called(ctx, prefix, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentStorage) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(spec models.ReportSpec) ([]byte, error) {
	args := m.Called(spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
