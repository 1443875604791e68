package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThiagoRGoveia/haiti-debt/internal/config"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

func setupSQLite(t *testing.T) *SQLiteDBManager {
	t.Helper()
	ctx := context.Background()

	manager, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	require.NoError(t, manager.CreateDebtTable(ctx))
	require.NoError(t, manager.CreateImportRunsTable(ctx))
	// schema creation must be repeatable
	require.NoError(t, manager.CreateDebtTable(ctx))
	require.NoError(t, manager.CreateImportRunsTable(ctx))

	return manager
}

func text(s string) *string {
	return &s
}

func sampleRows() []models.YearRow {
	return []models.YearRow{
		{
			Year:              1824,
			Phase:             models.PhasePreIndemnity,
			OutstandingFrancs: models.Zero(),
			PaymentsFrancs:    models.Zero(),
			Notes:             text("Independence achieved; indemnity not yet imposed."),
		},
		{
			Year:              1825,
			Phase:             models.PhaseDoubleDebt,
			OutstandingFrancs: models.Amount(decimal.RequireFromString("30000000.25")),
			PaymentsFrancs:    decimal.NullDecimal{},
			Payments2021USD:   models.Amount(decimal.RequireFromString("560000000")),
			Notes:             text("Data derived from NYT 'double debt' dataset."),
		},
		{
			Year:              1900,
			Phase:             models.PhasePostDebt,
			OutstandingFrancs: models.Zero(),
			PaymentsFrancs:    models.Zero(),
		},
	}
}

func assertSameRow(t *testing.T, expected, actual models.YearRow) {
	t.Helper()
	assert.Equal(t, expected.Year, actual.Year)
	assert.Equal(t, expected.Phase, actual.Phase)
	assert.Equal(t, expected.Notes, actual.Notes)
	for _, pair := range [][2]decimal.NullDecimal{
		{expected.OutstandingFrancs, actual.OutstandingFrancs},
		{expected.PaymentsFrancs, actual.PaymentsFrancs},
		{expected.Payments2021USD, actual.Payments2021USD},
	} {
		assert.Equal(t, pair[0].Valid, pair[1].Valid)
		if pair[0].Valid {
			assert.True(t, pair[0].Decimal.Equal(pair[1].Decimal), "%s != %s", pair[0].Decimal, pair[1].Decimal)
		}
	}
}

func TestSQLiteDBManager_YearRows(t *testing.T) {
	ctx := context.Background()

	t.Run("should return an empty list before any import", func(t *testing.T) {
		manager := setupSQLite(t)

		rows, err := manager.ListYearRows(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("should store and read back rows ordered by year", func(t *testing.T) {
		manager := setupSQLite(t)
		input := sampleRows()
		// write out of order to check ordering on read
		require.NoError(t, manager.UpsertYearRows(ctx, []models.YearRow{input[2], input[0], input[1]}))

		rows, err := manager.ListYearRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := range input {
			assertSameRow(t, input[i], rows[i])
		}
	})

	t.Run("should converge to the same state when upserting twice", func(t *testing.T) {
		manager := setupSQLite(t)
		require.NoError(t, manager.UpsertYearRows(ctx, sampleRows()))
		require.NoError(t, manager.UpsertYearRows(ctx, sampleRows()))

		rows, err := manager.ListYearRows(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("should overwrite an existing year", func(t *testing.T) {
		manager := setupSQLite(t)
		require.NoError(t, manager.UpsertYearRows(ctx, sampleRows()))

		updated := sampleRows()[1]
		updated.PaymentsFrancs = models.Amount(decimal.RequireFromString("6000000"))
		updated.Notes = nil
		require.NoError(t, manager.UpsertYearRows(ctx, []models.YearRow{updated}))

		row, err := manager.GetYearRow(ctx, 1825)
		require.NoError(t, err)
		assertSameRow(t, updated, *row)
	})

	t.Run("should report a missing year", func(t *testing.T) {
		manager := setupSQLite(t)

		row, err := manager.GetYearRow(ctx, 1850)
		assert.Nil(t, row)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteDBManager_ImportRuns(t *testing.T) {
	ctx := context.Background()
	manager := setupSQLite(t)

	insert := func(checksum, status string) {
		now := time.Now().UTC()
		require.NoError(t, manager.InsertImportRun(ctx, &models.ImportRun{
			ID:         uuid.New(),
			SourcePath: "debt.csv",
			Checksum:   checksum,
			RowCount:   144,
			Warnings:   []string{`column 5 ("SOURCE"): unrecognized header, column ignored`},
			Status:     status,
			StartedAt:  now,
			FinishedAt: now,
		}))
	}

	insert("aaaa", models.ImportStatusFatal)
	found, err := manager.IsSourceAlreadyImported(ctx, "aaaa")
	require.NoError(t, err)
	assert.False(t, found, "a failed run does not count as imported")

	insert("aaaa", models.ImportStatusDoneWithWarnings)
	found, err = manager.IsSourceAlreadyImported(ctx, "aaaa")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = manager.IsSourceAlreadyImported(ctx, "bbbb")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpen(t *testing.T) {
	t.Run("should open sqlite", func(t *testing.T) {
		manager, err := Open(context.Background(), &config.Config{DatabaseType: config.DatabaseTypeSQLite, DatabaseURL: ":memory:"})
		require.NoError(t, err)
		defer manager.Close()

		assert.IsType(t, &SQLiteDBManager{}, manager)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		manager, err := Open(context.Background(), &config.Config{DatabaseType: "mysql", DatabaseURL: "x"})
		assert.Nil(t, manager)
		assert.Error(t, err)
	})
}
