package handlers

import (
	"context"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, ownerID *uuid.UUID, spec models.ReportSpec) (*services.GeneratedReport, error) {
	args := m.Called(ctx, ownerID, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GeneratedReport), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.SavedReport, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.SavedReport), args.Error(1)
}

func (m *MockReportService) Get(ctx context.Context, id int64) (*models.SavedReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedReport), args.Error(1)
}

func (m *MockReportService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReportService) RenderSaved(ctx context.Context, id int64, rateColumnLabel string) (*services.Document, error) {
	args := m.Called(ctx, id, rateColumnLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Document), args.Error(1)
}

func (m *MockReportService) ExportSpreadsheet(ctx context.Context, id int64, rateColumnLabel string) (*services.Document, error) {
	args := m.Called(ctx, id, rateColumnLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Document), args.Error(1)
}

func (m *MockReportService) TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.ProductUsage), args.Error(1)
}

func (m *MockReportService) WarmPopularProducts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReportService) PurgeDocuments(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

type MockEditorService struct {
	mock.Mock
}

func (m *MockEditorService) lines(args mock.Arguments) ([]models.ProductLine, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductLine), args.Error(1)
}

func (m *MockEditorService) Lines(ctx context.Context, userID string) ([]models.ProductLine, error) {
	return m.lines(m.Called(ctx, userID))
}

func (m *MockEditorService) Add(ctx context.Context, userID string, line models.ProductLine) ([]models.ProductLine, error) {
	return m.lines(m.Called(ctx, userID, line))
}

func (m *MockEditorService) QuickAdd(ctx context.Context, userID, productName string) ([]models.ProductLine, error) {
	return m.lines(m.Called(ctx, userID, productName))
}

func (m *MockEditorService) Remove(ctx context.Context, userID string, index int) ([]models.ProductLine, error) {
	return m.lines(m.Called(ctx, userID, index))
}

func (m *MockEditorService) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockEditorService) LoadReport(ctx context.Context, userID string, reportID int64) ([]models.ProductLine, error) {
	return m.lines(m.Called(ctx, userID, reportID))
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput, roles ...models.Role) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.TokenResponse, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.TokenResponse), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	args := m.Called(user)
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*services.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error {
	return m.Called(ctx, id, roles).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Principal), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	return m.Called(ctx, id, currentPassword, newPassword).Error(0)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, id uuid.UUID, in services.ProfileInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
