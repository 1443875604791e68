package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ThiagoRGoveia/haiti-debt/internal/config"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

var ErrNotFound = errors.New("year not found")

type DBManager interface {
	CreateDebtTable(ctx context.Context) error
	CreateImportRunsTable(ctx context.Context) error
	UpsertYearRows(ctx context.Context, rows []models.YearRow) error
	ListYearRows(ctx context.Context) ([]models.YearRow, error)
	GetYearRow(ctx context.Context, year int) (*models.YearRow, error)
	InsertImportRun(ctx context.Context, run *models.ImportRun) error
	IsSourceAlreadyImported(ctx context.Context, checksum string) (bool, error)
	Close()
}

// Open connects to the store selected by cfg.DatabaseType.
func Open(ctx context.Context, cfg *config.Config) (DBManager, error) {
	switch cfg.DatabaseType {
	case config.DatabaseTypeSQLite:
		manager, err := OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return manager, nil
	case config.DatabaseTypePostgres:
		pool, err := ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresDBManager(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// numericArg turns an amount into a query argument; nil is stored as NULL.
func numericArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func parseNumeric(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("error parsing stored amount %q: %w", *s, err)
	}
	return models.Amount(d), nil
}

// buildYearRow assembles a row from the text form of its columns.
func buildYearRow(year int, phase string, outstanding, payments, usd, notes *string) (*models.YearRow, error) {
	row := &models.YearRow{Year: year, Phase: models.Phase(phase), Notes: notes}

	var err error
	if row.OutstandingFrancs, err = parseNumeric(outstanding); err != nil {
		return nil, err
	}
	if row.PaymentsFrancs, err = parseNumeric(payments); err != nil {
		return nil, err
	}
	if row.Payments2021USD, err = parseNumeric(usd); err != nil {
		return nil, err
	}
	return row, nil
}
