package underwriting

import (
	"fmt"

	"github.com/google/uuid"

	"dealdesk/server/internal/finance"
	"dealdesk/server/internal/models"
)

// NormalizedInputs is the validated, derived view of a run request. It is
// built once per run and never modified afterwards.
type NormalizedInputs struct {
	DealID      *uuid.UUID
	Property    models.PropertyProfile
	Loan        models.LoanTerms
	T12         models.T12Financials
	Assumptions models.Assumptions

	PurchasePrice       float64
	LoanAmount          float64
	GrossPotentialRent  float64
	VacancyLoss         float64
	OtherIncome         float64
	OperatingExpenses   float64
	CapitalReserves     float64
	StabilizedOccupancy float64
	StabilizationYears  int
	RentGrowth          float64
	ExpenseGrowth       float64
	ExitCapRate         float64
	ExitYear            int
}

func (n NormalizedInputs) OccupancyRate() float64 { return n.Property.OccupancyRate }
func (n NormalizedInputs) InterestRate() float64  { return n.Loan.InterestRate }
func (n NormalizedInputs) AmortizationYears() int { return n.Loan.AmortizationYears }
func (n NormalizedInputs) TermYears() int         { return n.Loan.TermYears }

// Equity is the cash required at close
func (n NormalizedInputs) Equity() float64 {
	if equity := n.PurchasePrice - n.LoanAmount; equity > 0 {
		return equity
	}
	return 0
}

func (n NormalizedInputs) LoanToValue() float64 {
	return finance.LoanToValue(n.LoanAmount, n.PurchasePrice)
}

func (n NormalizedInputs) EffectiveGrossIncome() float64 {
	return finance.EffectiveGrossIncome(n.GrossPotentialRent, n.VacancyLoss, n.OtherIncome)
}

// VacancyRate is aggregate vacancy as a share of gross potential rent
func (n NormalizedInputs) VacancyRate() float64 {
	if n.GrossPotentialRent <= 0 {
		return 0
	}
	return finance.Clamp01(n.VacancyLoss / n.GrossPotentialRent)
}

func (n NormalizedInputs) ImpliedOccupancy() float64 {
	return finance.Clamp01(1 - n.VacancyRate())
}

// PerUnitRent is the monthly gross potential rent per unit
func (n NormalizedInputs) PerUnitRent() float64 {
	if n.Property.Units <= 0 {
		return 0
	}
	return n.GrossPotentialRent / float64(n.Property.Units*12)
}

// Normalize validates the request and derives the inputs every other stage
// works from. dealCtx may be nil; when it carries an address and the
// request has none, the address is backfilled.
func Normalize(req models.RunRequest, assumptions models.Assumptions, dealCtx *models.DealContext) (NormalizedInputs, []models.Warning, error) {
	if err := req.Validate(); err != nil {
		return NormalizedInputs{}, nil, err
	}
	if err := assumptions.Validate(); err != nil {
		return NormalizedInputs{}, nil, err
	}

	var warnings []models.Warning

	property := req.Property
	loan := req.Loan
	t12 := req.T12
	purchasePrice := property.PurchasePrice

	var loanAmount float64
	switch {
	case loan.LoanAmount != nil:
		loanAmount = *loan.LoanAmount
	case loan.LoanToValue != nil:
		loanAmount = purchasePrice * *loan.LoanToValue
	default:
		return NormalizedInputs{}, nil, ErrMissingLoanSizing
	}

	if loanAmount <= 0 || loanAmount > purchasePrice {
		return NormalizedInputs{}, nil, fmt.Errorf("%w (loan %.2f, price %.2f)", ErrInvalidLoanAmount, loanAmount, purchasePrice)
	}

	totalVacancy := t12.TotalVacancy()
	if property.OccupancyRate <= 0 && t12.GrossPotentialRent > 0 {
		property.OccupancyRate = finance.Clamp01(1 - totalVacancy/t12.GrossPotentialRent)
	}

	egi := finance.EffectiveGrossIncome(t12.GrossPotentialRent, totalVacancy, t12.OtherIncome)
	operatingExpenses := t12.TotalOperatingExpenses(egi)

	if operatingExpenses >= egi && egi > 0 {
		warnings = append(warnings, models.Warning{
			Code:    WarningOpexExceedsEGI,
			Message: fmt.Sprintf("operating expenses %.2f meet or exceed effective gross income %.2f", operatingExpenses, egi),
		})
	}

	stabilized := assumptions.StabilizedOccupancy
	if property.OccupancyRate > stabilized {
		stabilized = property.OccupancyRate
	}

	if property.Address == nil && dealCtx != nil && dealCtx.Address != nil && *dealCtx.Address != "" {
		address := *dealCtx.Address
		property.Address = &address
	}

	normalized := NormalizedInputs{
		DealID:              req.DealID,
		Property:            property,
		Loan:                loan,
		T12:                 t12,
		Assumptions:         assumptions,
		PurchasePrice:       purchasePrice,
		LoanAmount:          loanAmount,
		GrossPotentialRent:  t12.GrossPotentialRent,
		VacancyLoss:         totalVacancy,
		OtherIncome:         t12.OtherIncome,
		OperatingExpenses:   operatingExpenses,
		CapitalReserves:     t12.CapitalReserves,
		StabilizedOccupancy: stabilized,
		StabilizationYears:  assumptions.StabilizationYears,
		RentGrowth:          assumptions.RentGrowth,
		ExpenseGrowth:       assumptions.ExpenseGrowth,
		ExitCapRate:         assumptions.ExitCapRate,
		ExitYear:            assumptions.ExitYear,
	}

	if purchasePrice-loanAmount <= 0 {
		return NormalizedInputs{}, nil, fmt.Errorf("%w (loan %.2f, price %.2f)", ErrInvalidEquity, loanAmount, purchasePrice)
	}

	return normalized, warnings, nil
}
