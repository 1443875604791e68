package series

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
	"github.com/ThiagoRGoveia/haiti-debt/internal/parser"
)

var (
	ErrMissingHeader = errors.New("CSV file is missing a header row")
	ErrInvalidYear   = errors.New("year is missing or not a number")
	ErrDuplicateYear = errors.New("year appears more than once")
)

const (
	NotePreIndemnity = "Independence achieved; indemnity not yet imposed."
	NoteDoubleDebt   = "Data derived from NYT 'double debt' dataset."
	NotePostDebt     = "Double debt considered paid; later external debts existed but are not included."
)

type Options struct {
	// RejectDuplicateYears fails the build when two data rows share a year instead of
	// keeping the later one.
	RejectDuplicateYears bool
	Logger               *slog.Logger
}

type Warning struct {
	Column  int    `json:"column"`
	Header  string `json:"header"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("column %d (%q): %s", w.Column, w.Header, w.Message)
}

type Result struct {
	Rows           []models.YearRow
	RecordCount    int
	Warnings       []Warning
	DuplicateYears []int
}

// Build parses the CSV content and returns one row per year from models.FirstYear to
// models.LastYear. A data row without a usable year fails the whole build.
func Build(content string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	table := parser.Parse(content)
	if len(table) == 0 {
		return nil, ErrMissingHeader
	}

	fields, warnings := resolveHeader(table[0])
	for _, w := range warnings {
		logger.Warn("ignoring CSV column", "column", w.Column, "header", w.Header)
	}

	records, duplicates, err := decodeRecords(table[1:], table[0], fields, opts.RejectDuplicateYears)
	if err != nil {
		return nil, err
	}
	for _, year := range duplicates {
		logger.Warn("duplicate year in CSV, keeping the last row", "year", year)
	}

	return &Result{
		Rows:           Expand(records),
		RecordCount:    len(records),
		Warnings:       warnings,
		DuplicateYears: duplicates,
	}, nil
}

func decodeRecords(rows [][]string, header []string, fields []Field, rejectDuplicates bool) (map[int]models.RawRecord, []int, error) {
	records := make(map[int]models.RawRecord, len(rows))
	var duplicates []int

	for i, row := range rows {
		rowNumber := i + 2
		record := models.RawRecord{}
		hasYear := false
		var yearText, yearHeader string

		for col, cell := range row {
			if col >= len(fields) {
				break
			}
			switch fields[col] {
			case FieldUnknown:
				continue
			case FieldYear:
				yearText, yearHeader = cell, normalizeHeader(header[col])
				year := decodeNumber(cell)
				if !year.Valid {
					hasYear = false
					continue
				}
				record.Year = int(year.Decimal.Truncate(0).IntPart())
				hasYear = true
			default:
				fields[col].set(&record, decodeNumber(cell))
			}
		}

		if !hasYear {
			if yearHeader == "" {
				yearHeader = "YEAR"
			}
			return nil, nil, &models.RowError{Row: rowNumber, Column: yearHeader, Value: yearText, Err: ErrInvalidYear}
		}

		if _, exists := records[record.Year]; exists {
			if rejectDuplicates {
				return nil, nil, &models.RowError{Row: rowNumber, Column: "YEAR", Value: yearText, Err: ErrDuplicateYear}
			}
			duplicates = append(duplicates, record.Year)
		}
		records[record.Year] = record
	}

	return records, duplicates, nil
}

// Expand fills the full year range from the decoded records.
//
// Years before the indemnity are zero filled. Years of the double debt window take the dataset
// values when a record exists. Every other year, including any after the dataset window even if
// a record exists, is zero filled as paid off.
func Expand(records map[int]models.RawRecord) []models.YearRow {
	rows := make([]models.YearRow, 0, models.LastYear-models.FirstYear+1)

	for year := models.FirstYear; year <= models.LastYear; year++ {
		record, found := records[year]

		switch {
		case year < models.IndemnityStartYear:
			rows = append(rows, placeholderRow(year, models.PhasePreIndemnity, NotePreIndemnity))
		case found && year <= models.DatasetEndYear:
			rows = append(rows, models.YearRow{
				Year:              year,
				Phase:             models.PhaseDoubleDebt,
				OutstandingFrancs: record.Drawdown,
				PaymentsFrancs:    record.PaymentsFrancs,
				Payments2021USD:   record.USD2021,
				Notes:             note(NoteDoubleDebt),
			})
		default:
			rows = append(rows, placeholderRow(year, models.PhasePostDebt, NotePostDebt))
		}
	}

	return rows
}

func placeholderRow(year int, phase models.Phase, text string) models.YearRow {
	return models.YearRow{
		Year:              year,
		Phase:             phase,
		OutstandingFrancs: models.Zero(),
		PaymentsFrancs:    models.Zero(),
		Notes:             note(text),
	}
}

func note(text string) *string {
	return &text
}
