// Package exporter writes the stored series as CSV or Excel files.
package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

const SheetName = "Series"

// Columns is the header row of every export.
var Columns = []string{"YEAR", "PHASE", "OUTSTANDING-FRANCS", "PAYMENTS-FRANCS", "PAYMENTS-2021-USD", "NOTES"}

func amountText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func record(row models.YearRow) []string {
	notes := ""
	if row.Notes != nil {
		notes = *row.Notes
	}
	return []string{
		strconv.Itoa(row.Year),
		string(row.Phase),
		amountText(row.OutstandingFrancs),
		amountText(row.PaymentsFrancs),
		amountText(row.Payments2021USD),
		notes,
	}
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// WriteCSV writes the rows with every field quoted and LF line endings, the dialect the
// parser package reads back.
func WriteCSV(w io.Writer, rows []models.YearRow) error {
	var sb strings.Builder
	writeLine := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(f))
		}
		sb.WriteByte('\n')
	}

	writeLine(Columns)
	for _, row := range rows {
		writeLine(record(row))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("error writing csv export: %w", err)
	}
	return nil
}

// WriteXLSX writes the rows to a single sheet workbook. Amounts are numeric cells, null
// amounts are left blank.
func WriteXLSX(w io.Writer, rows []models.YearRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("error writing header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Year, string(row.Phase), amountCell(row.OutstandingFrancs), amountCell(row.PaymentsFrancs), amountCell(row.Payments2021USD), ""}
		if row.Notes != nil {
			values[5] = *row.Notes
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("error writing year %d: %w", row.Year, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing xlsx export: %w", err)
	}
	return nil
}

func amountCell(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	v, _ := d.Decimal.Float64()
	return v
}
