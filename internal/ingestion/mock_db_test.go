package ingestion

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

// MockDBManager is a mock implementation of the DBManager interface.
type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateDebtTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBManager) CreateImportRunsTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBManager) UpsertYearRows(ctx context.Context, rows []models.YearRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockDBManager) ListYearRows(ctx context.Context) ([]models.YearRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.YearRow), args.Error(1)
}

func (m *MockDBManager) GetYearRow(ctx context.Context, year int) (*models.YearRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.YearRow), args.Error(1)
}

func (m *MockDBManager) InsertImportRun(ctx context.Context, run *models.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockDBManager) IsSourceAlreadyImported(ctx context.Context, checksum string) (bool, error) {
	args := m.Called(ctx, checksum)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBManager) Close() {
	m.Called()
}
