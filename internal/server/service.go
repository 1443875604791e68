package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/exporter"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
	"github.com/ThiagoRGoveia/haiti-debt/internal/series"
)

const (
	msgFetchFailed  = "Failed to fetch data"
	msgInvalidYear  = "Year must be an integer"
	msgYearNotFound = "Year not found"
	msgBadFormat    = "Unsupported export format, use csv or xlsx"
	msgExportFailed = "Failed to export data"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type DebtService struct {
	DBManager database.DBManager
}

func NewDebtService(dbManager database.DBManager) *DebtService {
	return &DebtService{DBManager: dbManager}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// ListDebt returns every stored year in ascending order.
func (h *DebtService) ListDebt(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DBManager.ListYearRows(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list year rows", "error", err)
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	if rows == nil {
		rows = []models.YearRow{}
	}
	render.JSON(w, r, rows)
}

func (h *DebtService) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidYear)
		return
	}

	row, err := h.DBManager.GetYearRow(r.Context(), year)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, msgYearNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get year row", "year", year, "error", err)
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	render.JSON(w, r, row)
}

func (h *DebtService) GetSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DBManager.ListYearRows(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list year rows", "error", err)
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	render.JSON(w, r, series.Summarize(rows))
}

// Export streams the series as an attachment. The body is built in memory first so a
// failure can still be reported with a proper status.
func (h *DebtService) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		write       func(*bytes.Buffer, []models.YearRow) error
		contentType string
	)
	switch format {
	case "csv":
		write = func(b *bytes.Buffer, rows []models.YearRow) error { return exporter.WriteCSV(b, rows) }
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		write = func(b *bytes.Buffer, rows []models.YearRow) error { return exporter.WriteXLSX(b, rows) }
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeError(w, r, http.StatusBadRequest, msgBadFormat)
		return
	}

	rows, err := h.DBManager.ListYearRows(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list year rows", "error", err)
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		slog.ErrorContext(r.Context(), "failed to export series", "format", format, "error", err)
		writeError(w, r, http.StatusInternalServerError, msgExportFailed)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="haiti_double_debt.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
