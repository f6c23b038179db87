package models

import (
	"fmt"
	"math"
)

// ValidationError reports a payload field that violates its allowed range
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func checkRange(field string, v, min, max float64) error {
	if math.IsNaN(v) || v < min || v > max {
		return invalid(field, "must be between %g and %g", min, max)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(field, "must be greater than or equal to 0")
	}
	return nil
}

func checkLength(field, v string, min, max int) error {
	if len(v) < min || len(v) > max {
		return invalid(field, "length must be between %d and %d", min, max)
	}
	return nil
}

// Validate checks the property profile ranges
func (p PropertyProfile) Validate() error {
	if err := checkLength("property.name", p.Name, 1, 255); err != nil {
		return err
	}
	if p.Address != nil {
		if err := checkLength("property.address", *p.Address, 0, 512); err != nil {
			return err
		}
	}
	if p.City != nil {
		if err := checkLength("property.city", *p.City, 0, 100); err != nil {
			return err
		}
	}
	if p.State != nil {
		if err := checkLength("property.state", *p.State, 2, 2); err != nil {
			return err
		}
	}
	if p.ZipCode != nil {
		if err := checkLength("property.zip_code", *p.ZipCode, 0, 10); err != nil {
			return err
		}
	}
	if p.Units <= 0 {
		return invalid("property.units", "must be greater than 0")
	}
	if err := checkRange("property.occupancy_rate", p.OccupancyRate, 0, 1); err != nil {
		return err
	}
	if err := checkNonNegative("property.average_rent", p.AverageRent); err != nil {
		return err
	}
	if math.IsNaN(p.PurchasePrice) || math.IsInf(p.PurchasePrice, 0) || p.PurchasePrice <= 0 {
		return invalid("property.purchase_price", "must be greater than 0")
	}
	return nil
}

// Validate checks the loan term ranges. Whether the loan resolves to a
// usable size is decided during normalization.
func (l LoanTerms) Validate() error {
	if l.LoanAmount != nil {
		if err := checkNonNegative("loan.loan_amount", *l.LoanAmount); err != nil {
			return err
		}
	}
	if l.LoanToValue != nil {
		if err := checkRange("loan.loan_to_value", *l.LoanToValue, 0, 1); err != nil {
			return err
		}
	}
	if math.IsNaN(l.InterestRate) || l.InterestRate <= 0 || l.InterestRate >= 1 {
		return invalid("loan.interest_rate", "must be greater than 0 and less than 1")
	}
	if l.AmortizationYears < 1 || l.AmortizationYears > 40 {
		return invalid("loan.amortization_years", "must be between 1 and 40")
	}
	if l.TermYears < 1 || l.TermYears > 40 {
		return invalid("loan.term_years", "must be between 1 and 40")
	}
	return nil
}

// Validate checks the expense line
func (e ExpenseLine) Validate() error {
	if err := checkLength("t12.operating_expenses.category", e.Category, 1, 100); err != nil {
		return err
	}
	return checkNonNegative("t12.operating_expenses.amount", e.Amount)
}

// Validate checks that every T12 figure is non-negative and the fee is in range
func (t T12Financials) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"t12.gross_potential_rent", t.GrossPotentialRent},
		{"t12.vacancy_loss", t.VacancyLoss},
		{"t12.credit_loss", t.CreditLoss},
		{"t12.concessions", t.Concessions},
		{"t12.other_income", t.OtherIncome},
		{"t12.capital_reserves", t.CapitalReserves},
	}
	for _, f := range fields {
		if err := checkNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	for _, line := range t.OperatingExpenses {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return checkRange("t12.management_fee_rate", t.ManagementFeeRate, 0, 0.15)
}

// Validate checks the projection and stress assumption ranges
func (a Assumptions) Validate() error {
	if err := checkRange("assumptions.rent_growth", a.RentGrowth, -0.1, 0.25); err != nil {
		return err
	}
	if err := checkRange("assumptions.expense_growth", a.ExpenseGrowth, -0.1, 0.2); err != nil {
		return err
	}
	if err := checkRange("assumptions.stabilized_occupancy", a.StabilizedOccupancy, 0, 1); err != nil {
		return err
	}
	if a.StabilizationYears < 1 || a.StabilizationYears > 10 {
		return invalid("assumptions.stabilization_years", "must be between 1 and 10")
	}
	if math.IsNaN(a.ExitCapRate) || a.ExitCapRate <= 0 || a.ExitCapRate >= 0.25 {
		return invalid("assumptions.exit_cap_rate", "must be greater than 0 and less than 0.25")
	}
	if a.ExitYear < 1 || a.ExitYear > 30 {
		return invalid("assumptions.exit_year", "must be between 1 and 30")
	}
	if err := checkRange("assumptions.downside_vacancy_delta", a.DownsideVacancyDelta, 0, 0.5); err != nil {
		return err
	}
	if err := checkRange("assumptions.downside_expense_increase", a.DownsideExpenseIncrease, 0, 1); err != nil {
		return err
	}
	if err := checkRange("assumptions.upside_rent_growth", a.UpsideRentGrowth, -0.1, 0.25); err != nil {
		return err
	}
	if err := checkRange("assumptions.interest_rate_shock", a.InterestRateShock, 0, 0.05); err != nil {
		return err
	}
	return checkNonNegative("assumptions.major_capex_amount", a.MajorCapexAmount)
}

// Validate checks every section of the request
func (r RunRequest) Validate() error {
	if err := r.Property.Validate(); err != nil {
		return err
	}
	if err := r.Loan.Validate(); err != nil {
		return err
	}
	if err := r.T12.Validate(); err != nil {
		return err
	}
	if r.Assumptions != nil {
		return r.Assumptions.Validate()
	}
	return nil
}
