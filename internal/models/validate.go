package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that knows the debt phase labels.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// the phase labels contain spaces, which oneof cannot express
	_ = v.RegisterValidation("debtphase", func(fl validator.FieldLevel) bool {
		return Phase(fl.Field().String()).Valid()
	})
	return v
}

// ValidateYearRows checks every row and that the years form the dense FirstYear..LastYear range.
func ValidateYearRows(v *validator.Validate, rows []YearRow) error {
	if len(rows) != LastYear-FirstYear+1 {
		return fmt.Errorf("expected %d rows, got %d", LastYear-FirstYear+1, len(rows))
	}
	for i, row := range rows {
		if err := v.Struct(row); err != nil {
			return fmt.Errorf("year row %d is invalid: %w", row.Year, err)
		}
		if row.Year != FirstYear+i {
			return fmt.Errorf("year row at position %d has year %d, expected %d", i, row.Year, FirstYear+i)
		}
	}
	return nil
}
