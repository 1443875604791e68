package series

import (
	"github.com/shopspring/decimal"

	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
)

// Summary condenses a series for the headline card of the chart page.
type Summary struct {
	FirstYear             int                  `json:"first_year"`
	LastYear              int                  `json:"last_year"`
	TotalPaymentsFrancs   decimal.Decimal      `json:"total_payments_francs"`
	TotalPayments2021USD  decimal.Decimal      `json:"total_payments_2021_usd"`
	PeakOutstandingFrancs decimal.NullDecimal  `json:"peak_outstanding_francs"`
	PeakOutstandingYear   *int                 `json:"peak_outstanding_year"`
	DoubleDebtFirstYear   *int                 `json:"double_debt_first_year"`
	DoubleDebtLastYear    *int                 `json:"double_debt_last_year"`
	YearsByPhase          map[models.Phase]int `json:"years_by_phase"`
}

// Summarize aggregates rows in the order given. Missing amounts are skipped, not counted as zero.
func Summarize(rows []models.YearRow) Summary {
	s := Summary{
		TotalPaymentsFrancs:  decimal.Zero,
		TotalPayments2021USD: decimal.Zero,
		YearsByPhase:         make(map[models.Phase]int, len(models.Phases)),
	}
	if len(rows) == 0 {
		return s
	}

	s.FirstYear = rows[0].Year
	s.LastYear = rows[len(rows)-1].Year

	for _, row := range rows {
		s.YearsByPhase[row.Phase]++

		if row.PaymentsFrancs.Valid {
			s.TotalPaymentsFrancs = s.TotalPaymentsFrancs.Add(row.PaymentsFrancs.Decimal)
		}
		if row.Payments2021USD.Valid {
			s.TotalPayments2021USD = s.TotalPayments2021USD.Add(row.Payments2021USD.Decimal)
		}
		if row.OutstandingFrancs.Valid &&
			(!s.PeakOutstandingFrancs.Valid || row.OutstandingFrancs.Decimal.GreaterThan(s.PeakOutstandingFrancs.Decimal)) {
			s.PeakOutstandingFrancs = row.OutstandingFrancs
			year := row.Year
			s.PeakOutstandingYear = &year
		}

		if row.Phase == models.PhaseDoubleDebt {
			year := row.Year
			if s.DoubleDebtFirstYear == nil {
				s.DoubleDebtFirstYear = &year
			}
			s.DoubleDebtLastYear = &year
		}
	}

	return s
}
