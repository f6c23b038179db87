package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ExpenseLine is a single T12 operating expense item
type ExpenseLine struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// T12Financials is the trailing-twelve-month income statement used for underwriting
type T12Financials struct {
	GrossPotentialRent   float64       `json:"gross_potential_rent"`
	VacancyLoss          float64       `json:"vacancy_loss"`
	CreditLoss           float64       `json:"credit_loss"`
	Concessions          float64       `json:"concessions"`
	OtherIncome          float64       `json:"other_income"`
	OperatingExpenses    []ExpenseLine `json:"operating_expenses"`
	CapitalReserves      float64       `json:"capital_reserves"`
	ManagementFeeRate    float64       `json:"management_fee_rate"`
	IncludeManagementFee bool          `json:"include_management_fee"`
}

// TotalVacancy sums vacancy, credit and concession losses
func (t T12Financials) TotalVacancy() float64 {
	return t.VacancyLoss + t.CreditLoss + t.Concessions
}

// TotalOperatingExpenses sums the expense lines and, when enabled, adds the
// management fee as a share of effective gross income.
func (t T12Financials) TotalOperatingExpenses(effectiveGrossIncome float64) float64 {
	total := 0.0
	for _, line := range t.OperatingExpenses {
		total += line.Amount
	}
	if t.IncludeManagementFee && effectiveGrossIncome != 0 {
		total += effectiveGrossIncome * t.ManagementFeeRate
	}
	return total
}

// PropertyProfile holds the core property facts that drive underwriting
type PropertyProfile struct {
	Name          string  `json:"name"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
	Units         int     `json:"units"`
	OccupancyRate float64 `json:"occupancy_rate"`
	AverageRent   float64 `json:"average_rent"`
	PurchasePrice float64 `json:"purchase_price"`
}

// LoanTerms describes the debt. Exactly one of LoanAmount or LoanToValue
// must resolve to a loan size.
type LoanTerms struct {
	LoanAmount        *float64 `json:"loan_amount,omitempty"`
	LoanToValue       *float64 `json:"loan_to_value,omitempty"`
	InterestRate      float64  `json:"interest_rate"`
	AmortizationYears int      `json:"amortization_years"`
	TermYears         int      `json:"term_years"`
}

// Assumptions are the forward-looking projection and stress inputs
type Assumptions struct {
	RentGrowth              float64 `json:"rent_growth" yaml:"rent_growth"`
	ExpenseGrowth           float64 `json:"expense_growth" yaml:"expense_growth"`
	StabilizedOccupancy     float64 `json:"stabilized_occupancy" yaml:"stabilized_occupancy"`
	StabilizationYears      int     `json:"stabilization_years" yaml:"stabilization_years"`
	ExitCapRate             float64 `json:"exit_cap_rate" yaml:"exit_cap_rate"`
	ExitYear                int     `json:"exit_year" yaml:"exit_year"`
	DownsideVacancyDelta    float64 `json:"downside_vacancy_delta" yaml:"downside_vacancy_delta"`
	DownsideExpenseIncrease float64 `json:"downside_expense_increase" yaml:"downside_expense_increase"`
	UpsideRentGrowth        float64 `json:"upside_rent_growth" yaml:"upside_rent_growth"`
	InterestRateShock       float64 `json:"interest_rate_shock" yaml:"interest_rate_shock"`
	MajorCapexAmount        float64 `json:"major_capex_amount" yaml:"major_capex_amount"`
}

// DefaultAssumptions returns the documented baseline assumptions
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RentGrowth:              0.03,
		ExpenseGrowth:           0.025,
		StabilizedOccupancy:     0.95,
		StabilizationYears:      3,
		ExitCapRate:             0.065,
		ExitYear:                10,
		DownsideVacancyDelta:    0.10,
		DownsideExpenseIncrease: 0.15,
		UpsideRentGrowth:        0.03,
		InterestRateShock:       0.02,
		MajorCapexAmount:        150_000,
	}
}

// UnmarshalJSON fills fields missing from the payload with the baseline defaults
func (a *Assumptions) UnmarshalJSON(data []byte) error {
	type plain Assumptions
	decoded := plain(DefaultAssumptions())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = Assumptions(decoded)
	return nil
}

// RunRequest is the payload accepted by the underwriting run endpoint
type RunRequest struct {
	DealID      *uuid.UUID      `json:"deal_id,omitempty"`
	Property    PropertyProfile `json:"property"`
	Loan        LoanTerms       `json:"loan"`
	T12         T12Financials   `json:"t12"`
	Assumptions *Assumptions    `json:"assumptions,omitempty"`
}

// MetricSummary holds the headline metrics for a scenario
type MetricSummary struct {
	EffectiveGrossIncome  float64 `json:"effective_gross_income"`
	NOI                   float64 `json:"noi"`
	OperatingExpenses     float64 `json:"operating_expenses"`
	OperatingExpenseRatio float64 `json:"operating_expense_ratio"`
	CapRate               float64 `json:"cap_rate"`
	DSCR                  float64 `json:"dscr"`
	DebtYield             float64 `json:"debt_yield"`
	CashOnCash            float64 `json:"cash_on_cash"`
	AnnualDebtService     float64 `json:"annual_debt_service"`
	LoanToValue           float64 `json:"loan_to_value"`
	Equity                float64 `json:"equity"`
	NetCashFlow           float64 `json:"net_cash_flow"`
	BreakevenOccupancy    float64 `json:"breakeven_occupancy"`
	Occupancy             float64 `json:"occupancy"`
}

// ScenarioResult is the base case or a named stress scenario
type ScenarioResult struct {
	Kind           ScenarioKind       `json:"kind"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Assumptions    map[string]float64 `json:"assumptions"`
	Metrics        MetricSummary      `json:"metrics"`
	Classification Verdict            `json:"classification"`
	ModeledIRR     *float64           `json:"modeled_irr"`
}

// ProjectionYear is one row of the hold-period projection
type ProjectionYear struct {
	Year                 int     `json:"year"`
	Occupancy            float64 `json:"occupancy"`
	GrossPotentialRent   float64 `json:"gross_potential_rent"`
	OtherIncome          float64 `json:"other_income"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	AnnualDebtService    float64 `json:"annual_debt_service"`
	CapitalReserves      float64 `json:"capital_reserves"`
	NetCashFlow          float64 `json:"net_cash_flow"`
	EndingLoanBalance    float64 `json:"ending_loan_balance"`
}

// ProjectionSummary is the hold-period plan including equity returns
type ProjectionSummary struct {
	Years          []ProjectionYear `json:"years"`
	IRR            *float64         `json:"irr"`
	EquityMultiple *float64         `json:"equity_multiple"`
	CashFlows      []float64        `json:"cash_flows"`
	ExitValue      float64          `json:"exit_value"`
	ExitProceeds   float64          `json:"exit_proceeds"`
	SaleYear       int              `json:"sale_year"`
}

// DealSummary describes the deal and property that were evaluated
type DealSummary struct {
	DealID        *uuid.UUID `json:"deal_id"`
	PropertyName  string     `json:"property_name"`
	Address       *string    `json:"address"`
	Units         int        `json:"units"`
	OccupancyRate float64    `json:"occupancy_rate"`
	PurchasePrice float64    `json:"purchase_price"`
	LoanAmount    float64    `json:"loan_amount"`
	Equity        float64    `json:"equity"`
	LoanToValue   float64    `json:"loan_to_value"`
}

// Recommendation is the final verdict with rationale and call-outs
type Recommendation struct {
	Verdict    Verdict  `json:"verdict"`
	Rationale  string   `json:"rationale"`
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
	IRR        *float64 `json:"irr"`
	CashOnCash float64  `json:"cash_on_cash"`
	DSCR       float64  `json:"dscr"`
	CapRate    float64  `json:"cap_rate"`
}

// Warning is a non-fatal condition noticed while computing a run
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the full underwriting package returned for a run
type RunResponse struct {
	DealSummary    DealSummary       `json:"deal_summary"`
	BaseCase       ScenarioResult    `json:"base_case"`
	StressTests    []ScenarioResult  `json:"stress_tests"`
	Projection     ProjectionSummary `json:"projection"`
	Recommendation Recommendation    `json:"recommendation"`
	Warnings       []Warning         `json:"warnings,omitempty"`
}

// DealContext is what the deal store knows about a deal at run time
type DealContext struct {
	DealID   uuid.UUID
	ParkName string
	Address  *string
}
