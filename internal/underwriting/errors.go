package underwriting

import (
	"errors"

	"dealdesk/server/internal/models"
)

var (
	ErrMissingLoanSizing = errors.New("either loan_amount or loan_to_value must be provided")
	ErrInvalidLoanAmount = errors.New("loan amount must be positive and not exceed purchase price")
	ErrInvalidEquity     = errors.New("equity must be positive after accounting for loan proceeds")
	ErrHorizonTooLong    = errors.New("exit year exceeds the projection horizon")
)

// Warning codes emitted alongside a successful run
const (
	WarningOpexExceedsEGI  = "operating_expenses_exceed_egi"
	WarningIRRNotConverged = "irr_not_converged"
	WarningDealLookup      = "deal_context_unavailable"
)

// IsValidationError reports whether err stems from bad caller input
func IsValidationError(err error) bool {
	var fieldErr *models.ValidationError
	if errors.As(err, &fieldErr) {
		return true
	}
	return errors.Is(err, ErrMissingLoanSizing) ||
		errors.Is(err, ErrInvalidLoanAmount) ||
		errors.Is(err, ErrInvalidEquity) ||
		errors.Is(err, ErrHorizonTooLong)
}
