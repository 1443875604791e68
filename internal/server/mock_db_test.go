package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateDebtTable(ctx context.Context) error {
	return nil
}

func (m *MockDBManager) CreateImportRunsTable(ctx context.Context) error {
	return nil
}

func (m *MockDBManager) UpsertYearRows(ctx context.Context, rows []models.YearRow) error {
	return nil
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
	return nil
}

func (m *MockDBManager) IsSourceAlreadyImported(ctx context.Context, checksum string) (bool, error) {
	return false, nil
}

func (m *MockDBManager) Close() {}
