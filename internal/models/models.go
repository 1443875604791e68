package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers so the chart can plot them directly.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	FirstYear = 1804
	LastYear  = 1947

	// IndemnityStartYear is the first year the double debt applies to.
	IndemnityStartYear = 1825
	// DatasetEndYear is the last year the source dataset covers.
	DatasetEndYear = 1888
)

type Phase string

const (
	PhasePreIndemnity Phase = "Pre-indemnity"
	PhaseDoubleDebt   Phase = "Indemnity & 1825 loan (double debt)"
	PhasePostDebt     Phase = "Post double debt; other foreign borrowing"
)

// Phases lists every phase in chronological order.
var Phases = []Phase{PhasePreIndemnity, PhaseDoubleDebt, PhasePostDebt}

func (p Phase) Valid() bool {
	switch p {
	case PhasePreIndemnity, PhaseDoubleDebt, PhasePostDebt:
		return true
	}
	return false
}

// RawRecord is one decoded data row of the source CSV. Fields with no data are left invalid,
// which is not the same as zero.
type RawRecord struct {
	Year                    int
	Drawdown                decimal.NullDecimal
	PaymentsFrancs          decimal.NullDecimal
	IndemnityPaymentsFrancs decimal.NullDecimal
	LoanPaymentsFrancs      decimal.NullDecimal
	LateFeesFrancs          decimal.NullDecimal
	CPIIndex                decimal.NullDecimal
	FXRate                  decimal.NullDecimal
	HistoricalGDP           decimal.NullDecimal
	USD2021                 decimal.NullDecimal
}

// YearRow is the stored and served unit: one per calendar year between FirstYear and LastYear.
type YearRow struct {
	Year              int                 `json:"year" validate:"gte=1804,lte=1947"`
	Phase             Phase               `json:"phase" validate:"debtphase"`
	OutstandingFrancs decimal.NullDecimal `json:"outstanding_francs"`
	PaymentsFrancs    decimal.NullDecimal `json:"payments_francs"`
	Payments2021USD   decimal.NullDecimal `json:"payments_2021_usd"`
	Notes             *string             `json:"notes"`
}

// Amount wraps a known value.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Zero is the placeholder amount used outside the dataset coverage.
func Zero() decimal.NullDecimal {
	return Amount(decimal.Zero)
}
