package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

func ConnectDB(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return dbpool, nil
}

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
}

func NewPostgresDBManager(pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool}
}

func (m *PostgresDBManager) Close() {
	m.dbpool.Close()
}

func (m *PostgresDBManager) CreateDebtTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS haiti_debt (
		year INT PRIMARY KEY,
		phase TEXT NOT NULL,
		outstanding_francs NUMERIC,
		payments_francs NUMERIC,
		payments_2021_usd NUMERIC,
		notes TEXT
	);`

	_, err := m.dbpool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error creating haiti_debt table: %w", err)
	}

	return nil
}

func (m *PostgresDBManager) CreateImportRunsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS import_runs (
		id UUID PRIMARY KEY,
		source_path TEXT NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		record_count INTEGER NOT NULL,
		row_count INTEGER NOT NULL,
		status VARCHAR(50) NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_WARNINGS', 'SKIPPED', 'FATAL')),
		warnings jsonb,
		error TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_import_runs_checksum ON import_runs (checksum);`

	_, err := m.dbpool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error creating import_runs table: %w", err)
	}

	return nil
}

const upsertYearRowQuery = `
	INSERT INTO haiti_debt (year, phase, outstanding_francs, payments_francs, payments_2021_usd, notes)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (year) DO UPDATE SET
		phase = EXCLUDED.phase,
		outstanding_francs = EXCLUDED.outstanding_francs,
		payments_francs = EXCLUDED.payments_francs,
		payments_2021_usd = EXCLUDED.payments_2021_usd,
		notes = EXCLUDED.notes;`

// UpsertYearRows writes all rows in one transaction, so a failed import leaves the stored
// series untouched.
func (m *PostgresDBManager) UpsertYearRows(ctx context.Context, rows []models.YearRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := m.dbpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertYearRowQuery,
			row.Year,
			string(row.Phase),
			numericArg(row.OutstandingFrancs),
			numericArg(row.PaymentsFrancs),
			numericArg(row.Payments2021USD),
			row.Notes,
		)
	}

	slog.Debug("upserting year rows", "rows", len(rows))
	results := tx.SendBatch(ctx, batch)
	for _, row := range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("error upserting year %d: %w", row.Year, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("error closing upsert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

const selectYearRowColumns = `
	SELECT year, phase, outstanding_francs::text, payments_francs::text, payments_2021_usd::text, notes
	FROM haiti_debt`

func (m *PostgresDBManager) ListYearRows(ctx context.Context) ([]models.YearRow, error) {
	rows, err := m.dbpool.Query(ctx, selectYearRowColumns+` ORDER BY year;`)
	if err != nil {
		return nil, fmt.Errorf("error querying year rows: %w", err)
	}
	defer rows.Close()

	result := []models.YearRow{}
	for rows.Next() {
		row, err := scanYearRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over year rows: %w", err)
	}

	return result, nil
}

func (m *PostgresDBManager) GetYearRow(ctx context.Context, year int) (*models.YearRow, error) {
	row, err := scanYearRow(m.dbpool.QueryRow(ctx, selectYearRowColumns+` WHERE year = $1;`, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

func scanYearRow(row pgx.Row) (*models.YearRow, error) {
	var (
		year                       int
		phase                      string
		outstanding, payments, usd *string
		notes                      *string
	)
	if err := row.Scan(&year, &phase, &outstanding, &payments, &usd, &notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning year row: %w", err)
	}
	return buildYearRow(year, phase, outstanding, payments, usd, notes)
}

func (m *PostgresDBManager) InsertImportRun(ctx context.Context, run *models.ImportRun) error {
	query := `
	INSERT INTO import_runs (id, source_path, checksum, record_count, row_count, status, warnings, error, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("error encoding import warnings: %w", err)
	}

	_, err = m.dbpool.Exec(ctx, query,
		run.ID.String(), run.SourcePath, run.Checksum, run.RecordCount, run.RowCount,
		run.Status, warnings, nullableText(run.Error), run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("error inserting import run: %w", err)
	}

	return nil
}

func (m *PostgresDBManager) IsSourceAlreadyImported(ctx context.Context, checksum string) (bool, error) {
	query := `
	SELECT 1
	FROM import_runs
	WHERE checksum = $1 AND status IN ('DONE', 'DONE_WITH_WARNINGS')
	LIMIT 1;`

	var found int
	err := m.dbpool.QueryRow(ctx, query, checksum).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error finding import run by checksum: %w", err)
	}

	return true, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
