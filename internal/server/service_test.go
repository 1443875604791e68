package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/exporter"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
	"github.com/ThiagoRGoveia/haiti-debt/internal/parser"
)

func storedRows() []models.YearRow {
	note := "Data derived from NYT 'double debt' dataset."
	return []models.YearRow{
		{Year: 1824, Phase: models.PhasePreIndemnity, OutstandingFrancs: models.Zero(), PaymentsFrancs: models.Zero()},
		{
			Year:              1825,
			Phase:             models.PhaseDoubleDebt,
			OutstandingFrancs: models.Amount(decimal.RequireFromString("30000000")),
			PaymentsFrancs:    models.Amount(decimal.RequireFromString("6000000")),
			Payments2021USD:   models.Amount(decimal.RequireFromString("120000000.5")),
			Notes:             &note,
		},
	}
}

func newTestRouter(dbManager *MockDBManager) http.Handler {
	return SetupRoutes(NewDebtService(dbManager), RouterOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func serve(handler http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestDebtService_ListDebt(t *testing.T) {
	t.Run("should return rows with numeric amounts", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(storedRows(), nil)

		rr := serve(newTestRouter(dbManager), "/api/debt")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, float64(1824), body[0]["year"])
		assert.Nil(t, body[0]["payments_2021_usd"])
		assert.Nil(t, body[0]["notes"])
		assert.Equal(t, float64(30000000), body[1]["outstanding_francs"])
		assert.Equal(t, 120000000.5, body[1]["payments_2021_usd"])
		assert.Equal(t, string(models.PhaseDoubleDebt), body[1]["phase"])
		dbManager.AssertExpectations(t)
	})

	t.Run("should return an empty array when nothing is stored", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(nil, nil)

		rr := serve(newTestRouter(dbManager), "/api/debt")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("should return 500 when the store fails", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(nil, errors.New("connection refused"))

		rr := serve(newTestRouter(dbManager), "/api/debt")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch data"}`, rr.Body.String())
	})
}

func TestDebtService_GetYear(t *testing.T) {
	t.Run("should return the row for a year", func(t *testing.T) {
		row := storedRows()[1]
		dbManager := new(MockDBManager)
		dbManager.On("GetYearRow", mock.Anything, 1825).Return(&row, nil)

		rr := serve(newTestRouter(dbManager), "/api/debt/1825")

		assert.Equal(t, http.StatusOK, rr.Code)
		var body models.YearRow
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 1825, body.Year)
		assert.True(t, body.PaymentsFrancs.Decimal.Equal(decimal.RequireFromString("6000000")))
		dbManager.AssertExpectations(t)
	})

	t.Run("should reject a non numeric year", func(t *testing.T) {
		dbManager := new(MockDBManager)

		rr := serve(newTestRouter(dbManager), "/api/debt/eighteen")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, msgInvalidYear, decodeError(t, rr))
		dbManager.AssertNotCalled(t, "GetYearRow", mock.Anything, mock.Anything)
	})

	t.Run("should return 404 for a missing year", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("GetYearRow", mock.Anything, 1700).Return(nil, database.ErrNotFound)

		rr := serve(newTestRouter(dbManager), "/api/debt/1700")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, msgYearNotFound, decodeError(t, rr))
	})

	t.Run("should return 500 when the store fails", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("GetYearRow", mock.Anything, 1830).Return(nil, errors.New("timeout"))

		rr := serve(newTestRouter(dbManager), "/api/debt/1830")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, msgFetchFailed, decodeError(t, rr))
	})
}

func TestDebtService_GetSummary(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("ListYearRows", mock.Anything).Return(storedRows(), nil)

	rr := serve(newTestRouter(dbManager), "/api/debt/summary")

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(1824), body["first_year"])
	assert.Equal(t, float64(1825), body["last_year"])
	assert.Equal(t, float64(6000000), body["total_payments_francs"])
	assert.Equal(t, float64(1825), body["peak_outstanding_year"])
	assert.Equal(t, map[string]any{
		string(models.PhasePreIndemnity): float64(1),
		string(models.PhaseDoubleDebt):   float64(1),
	}, body["years_by_phase"])
	dbManager.AssertNotCalled(t, "GetYearRow", mock.Anything, mock.Anything)
}

func TestDebtService_Export(t *testing.T) {
	t.Run("should export csv by default", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(storedRows(), nil)

		rr := serve(newTestRouter(dbManager), "/api/debt/export")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "haiti_double_debt.csv")

		table := parser.Parse(rr.Body.String())
		require.Len(t, table, 3)
		assert.Equal(t, exporter.Columns, table[0])
		assert.Equal(t, "120000000.5", table[2][4])
	})

	t.Run("should export xlsx", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(storedRows(), nil)

		rr := serve(newTestRouter(dbManager), "/api/debt/export?format=xlsx")

		assert.Equal(t, http.StatusOK, rr.Code)
		f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(exporter.SheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("should reject an unknown format", func(t *testing.T) {
		dbManager := new(MockDBManager)

		rr := serve(newTestRouter(dbManager), "/api/debt/export?format=pdf")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, msgBadFormat, decodeError(t, rr))
		dbManager.AssertNotCalled(t, "ListYearRows", mock.Anything)
	})

	t.Run("should return 500 when the store fails", func(t *testing.T) {
		dbManager := new(MockDBManager)
		dbManager.On("ListYearRows", mock.Anything).Return(nil, errors.New("boom"))

		rr := serve(newTestRouter(dbManager), "/api/debt/export?format=csv")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, msgFetchFailed, decodeError(t, rr))
	})
}
