package series

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

// Field identifies the RawRecord field a CSV column feeds.
type Field int

const (
	FieldUnknown Field = iota
	FieldYear
	FieldDrawdown
	FieldPaymentsFrancs
	FieldIndemnityPaymentsFrancs
	FieldLoanPaymentsFrancs
	FieldLateFeesFrancs
	FieldCPIIndex
	FieldFXRate
	FieldHistoricalGDP
	FieldUSD2021
)

// Headers maps the recognized CSV header names to their fields. Lookups are exact and case sensitive.
var Headers = map[string]Field{
	"YEAR":                           FieldYear,
	"DOUBLE-DEBT-DRAWDOWN":           FieldDrawdown,
	"PAYMENTS-DOUBLE-DEBT-FRANCS":    FieldPaymentsFrancs,
	"PAYMENTS-INDEMNITY-ONLY-FRANCS": FieldIndemnityPaymentsFrancs,
	"LOAN-PRINCIPAL-INTEREST-FRANCS": FieldLoanPaymentsFrancs,
	"LATE-FEES-FRANCS":               FieldLateFeesFrancs,
	"CPI-INDEX":                      FieldCPIIndex,
	"FX-RATE":                        FieldFXRate,
	"HISTORICAL-GDP":                 FieldHistoricalGDP,
	"DOUBLE-DEBT-IN-2021-USD":        FieldUSD2021,
}

const byteOrderMark = "\ufeff"

func normalizeHeader(cell string) string {
	return strings.TrimSpace(strings.TrimPrefix(cell, byteOrderMark))
}

// resolveHeader maps every header cell to a field. Unrecognized cells map to FieldUnknown
// and are reported as warnings.
func resolveHeader(header []string) ([]Field, []Warning) {
	fields := make([]Field, len(header))
	var warnings []Warning
	for i, cell := range header {
		name := normalizeHeader(cell)
		field, ok := Headers[name]
		if !ok {
			warnings = append(warnings, Warning{
				Column:  i + 1,
				Header:  name,
				Message: "unrecognized header, column ignored",
			})
			continue
		}
		fields[i] = field
	}
	return fields, warnings
}

// set stores a decoded amount on the record field selected by f.
func (f Field) set(record *models.RawRecord, value decimal.NullDecimal) {
	switch f {
	case FieldDrawdown:
		record.Drawdown = value
	case FieldPaymentsFrancs:
		record.PaymentsFrancs = value
	case FieldIndemnityPaymentsFrancs:
		record.IndemnityPaymentsFrancs = value
	case FieldLoanPaymentsFrancs:
		record.LoanPaymentsFrancs = value
	case FieldLateFeesFrancs:
		record.LateFeesFrancs = value
	case FieldCPIIndex:
		record.CPIIndex = value
	case FieldFXRate:
		record.FXRate = value
	case FieldHistoricalGDP:
		record.HistoricalGDP = value
	case FieldUSD2021:
		record.USD2021 = value
	}
}

// decodeNumber drops thousands separators and surrounding whitespace. Empty or non numeric
// text is no data, never zero.
func decodeNumber(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return models.Amount(d)
}
