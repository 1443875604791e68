package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

// Amounts are kept as TEXT so SQLite never rounds them through REAL.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS haiti_debt (
	year INTEGER PRIMARY KEY,
	phase TEXT NOT NULL,
	outstanding_francs TEXT,
	payments_francs TEXT,
	payments_2021_usd TEXT,
	notes TEXT
);
`

const sqliteImportRunsSchema = `
CREATE TABLE IF NOT EXISTS import_runs (
	id TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	checksum TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	row_count INTEGER NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_WARNINGS', 'SKIPPED', 'FATAL')),
	warnings TEXT,
	error TEXT,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_runs_checksum ON import_runs(checksum);
`

type SQLiteDBManager struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database, for example "file:debt.db" or ":memory:".
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteDBManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach sqlite database: %w", err)
	}

	return NewSQLiteDBManager(db), nil
}

func NewSQLiteDBManager(db *sql.DB) *SQLiteDBManager {
	return &SQLiteDBManager{db: db}
}

func (m *SQLiteDBManager) Close() {
	m.db.Close()
}

func (m *SQLiteDBManager) CreateDebtTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("error creating haiti_debt table: %w", err)
	}
	return nil
}

func (m *SQLiteDBManager) CreateImportRunsTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, sqliteImportRunsSchema); err != nil {
		return fmt.Errorf("error creating import_runs table: %w", err)
	}
	return nil
}

func (m *SQLiteDBManager) UpsertYearRows(ctx context.Context, rows []models.YearRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO haiti_debt (year, phase, outstanding_francs, payments_francs, payments_2021_usd, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (year) DO UPDATE SET
			phase = excluded.phase,
			outstanding_francs = excluded.outstanding_francs,
			payments_francs = excluded.payments_francs,
			payments_2021_usd = excluded.payments_2021_usd,
			notes = excluded.notes`)
	if err != nil {
		return fmt.Errorf("error preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Year,
			string(row.Phase),
			textArg(numericArg(row.OutstandingFrancs)),
			textArg(numericArg(row.PaymentsFrancs)),
			textArg(numericArg(row.Payments2021USD)),
			textArg(row.Notes),
		)
		if err != nil {
			return fmt.Errorf("error upserting year %d: %w", row.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

const sqliteSelectYearRow = `
	SELECT year, phase, outstanding_francs, payments_francs, payments_2021_usd, notes
	FROM haiti_debt`

func (m *SQLiteDBManager) ListYearRows(ctx context.Context) ([]models.YearRow, error) {
	rows, err := m.db.QueryContext(ctx, sqliteSelectYearRow+` ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("error querying year rows: %w", err)
	}
	defer rows.Close()

	result := []models.YearRow{}
	for rows.Next() {
		row, err := scanSQLiteYearRow(rows)
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

func (m *SQLiteDBManager) GetYearRow(ctx context.Context, year int) (*models.YearRow, error) {
	row, err := scanSQLiteYearRow(m.db.QueryRowContext(ctx, sqliteSelectYearRow+` WHERE year = ?`, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteYearRow(row rowScanner) (*models.YearRow, error) {
	var (
		year                       int
		phase                      string
		outstanding, payments, usd sql.NullString
		notes                      sql.NullString
	)
	if err := row.Scan(&year, &phase, &outstanding, &payments, &usd, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning year row: %w", err)
	}
	return buildYearRow(year, phase, stringPtr(outstanding), stringPtr(payments), stringPtr(usd), stringPtr(notes))
}

// textArg hands database/sql a plain string or nil instead of a pointer.
func textArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func (m *SQLiteDBManager) InsertImportRun(ctx context.Context, run *models.ImportRun) error {
	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("error encoding import warnings: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source_path, checksum, record_count, row_count, status, warnings, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.SourcePath, run.Checksum, run.RecordCount, run.RowCount,
		run.Status, string(warnings), textArg(nullableText(run.Error)), run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("error inserting import run: %w", err)
	}
	return nil
}

func (m *SQLiteDBManager) IsSourceAlreadyImported(ctx context.Context, checksum string) (bool, error) {
	var found int
	err := m.db.QueryRowContext(ctx, `
		SELECT 1 FROM import_runs
		WHERE checksum = ? AND status IN ('DONE', 'DONE_WITH_WARNINGS')
		LIMIT 1`, checksum).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error finding import run by checksum: %w", err)
	}
	return true, nil
}
