package models

import (
	"encoding/json"
	"math"
)

// ScenarioInputs is the quick-screen payload: rent roll, expenses and a
// simple LTV loan.
type ScenarioInputs struct {
	PurchasePrice     float64 `json:"purchase_price"`
	PadCount          int     `json:"pad_count"`
	CurrentRent       float64 `json:"current_rent"`
	OccupancyRate     float64 `json:"occupancy_rate"`
	OperatingExpenses float64 `json:"operating_expenses"`
	PropertyTax       float64 `json:"property_tax"`
	Insurance         float64 `json:"insurance"`
	LoanLTV           float64 `json:"loan_ltv"`
	InterestRate      float64 `json:"interest_rate"`
	TermYears         int     `json:"term_years"`
}

// UnmarshalJSON applies the loan defaults (75% LTV, 7%, 30 years) when omitted
func (s *ScenarioInputs) UnmarshalJSON(data []byte) error {
	type plain ScenarioInputs
	decoded := plain{LoanLTV: 0.75, InterestRate: 0.07, TermYears: 30}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = ScenarioInputs(decoded)
	return nil
}

func (s ScenarioInputs) Validate() error {
	if math.IsNaN(s.PurchasePrice) || s.PurchasePrice <= 0 {
		return invalid("purchase_price", "must be greater than 0")
	}
	if s.PadCount <= 0 {
		return invalid("pad_count", "must be greater than 0")
	}
	if math.IsNaN(s.CurrentRent) || s.CurrentRent <= 0 {
		return invalid("current_rent", "must be greater than 0")
	}
	if err := checkRange("occupancy_rate", s.OccupancyRate, 0, 1); err != nil {
		return err
	}
	if err := checkNonNegative("operating_expenses", s.OperatingExpenses); err != nil {
		return err
	}
	if err := checkNonNegative("property_tax", s.PropertyTax); err != nil {
		return err
	}
	if err := checkNonNegative("insurance", s.Insurance); err != nil {
		return err
	}
	if err := checkRange("loan_ltv", s.LoanLTV, 0, 1); err != nil {
		return err
	}
	if math.IsNaN(s.InterestRate) || s.InterestRate <= 0 || s.InterestRate >= 0.5 {
		return invalid("interest_rate", "must be greater than 0 and less than 0.5")
	}
	if s.TermYears < 1 || s.TermYears > 50 {
		return invalid("term_years", "must be between 1 and 50")
	}
	return nil
}

type ScreeningRevenue struct {
	GrossIncome float64 `json:"gross_income"`
	VacancyLoss float64 `json:"vacancy_loss"`
	EGI         float64 `json:"egi"`
}

type ScreeningExpenses struct {
	OperatingExpenses float64 `json:"operating_expenses"`
	PropertyTax       float64 `json:"property_tax"`
	Insurance         float64 `json:"insurance"`
	TotalOpex         float64 `json:"total_opex"`
	ExpenseRatio      float64 `json:"expense_ratio"`
}

type ScreeningFinancing struct {
	LoanAmount        float64 `json:"loan_amount"`
	Equity            float64 `json:"equity"`
	AnnualDebtService float64 `json:"annual_debt_service"`
}

type ScreeningMetrics struct {
	CapRate     float64 `json:"cap_rate"`
	DSCR        float64 `json:"dscr"`
	DebtYield   float64 `json:"debt_yield"`
	CashOnCash  float64 `json:"cash_on_cash"`
	ValuePerPad float64 `json:"value_per_pad"`
}

// ScreeningScenario is one quick-screen evaluation. Name and Type are only
// set on stress grid entries.
type ScreeningScenario struct {
	Name      string             `json:"name,omitempty"`
	Type      string             `json:"type,omitempty"`
	Inputs    ScenarioInputs     `json:"inputs"`
	Revenue   ScreeningRevenue   `json:"revenue"`
	Expenses  ScreeningExpenses  `json:"expenses"`
	NOI       float64            `json:"noi"`
	Financing ScreeningFinancing `json:"financing"`
	CashFlow  float64            `json:"cash_flow"`
	Metrics   ScreeningMetrics   `json:"metrics"`
}

// BuyBoxCriteria are the acquisition thresholds a deal is screened against
type BuyBoxCriteria struct {
	MinDSCR        float64 `json:"min_dscr" yaml:"min_dscr"`
	MinDebtYield   float64 `json:"min_debt_yield" yaml:"min_debt_yield"`
	MinCapRate     float64 `json:"min_cap_rate" yaml:"min_cap_rate"`
	MaxPricePerPad float64 `json:"max_price_per_pad" yaml:"max_price_per_pad"`
}

// DefaultBuyBox returns the standard acquisition thresholds
func DefaultBuyBox() BuyBoxCriteria {
	return BuyBoxCriteria{
		MinDSCR:        1.25,
		MinDebtYield:   0.10,
		MinCapRate:     0.08,
		MaxPricePerPad: 15_000,
	}
}

func (b *BuyBoxCriteria) UnmarshalJSON(data []byte) error {
	type plain BuyBoxCriteria
	decoded := plain(DefaultBuyBox())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*b = BuyBoxCriteria(decoded)
	return nil
}

func (b BuyBoxCriteria) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"criteria.min_dscr", b.MinDSCR},
		{"criteria.min_debt_yield", b.MinDebtYield},
		{"criteria.min_cap_rate", b.MinCapRate},
		{"criteria.max_price_per_pad", b.MaxPricePerPad},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || f.value <= 0 {
			return invalid(f.name, "must be greater than 0")
		}
	}
	return nil
}

// CriterionCheck is a single buy-box test. Delta is positive when the
// criterion passes with room to spare.
type CriterionCheck struct {
	Passes    bool    `json:"passes"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Delta     float64 `json:"delta"`
}

type BuyBoxSummary struct {
	TotalChecks int `json:"total_checks"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
}

type BuyBoxEvaluation struct {
	PassesBuyBox bool                      `json:"passes_buy_box"`
	Criteria     map[string]CriterionCheck `json:"criteria"`
	Summary      BuyBoxSummary             `json:"summary"`
}

// ProFormaRequest asks for a simple multi-year hold on a quick-screen deal
type ProFormaRequest struct {
	Scenario        ScenarioInputs `json:"scenario"`
	ProjectionYears int            `json:"projection_years"`
	RentGrowth      float64        `json:"rent_growth"`
	ExpenseGrowth   float64        `json:"expense_growth"`
	ExitCapRate     *float64       `json:"exit_cap_rate,omitempty"`
}

func (p *ProFormaRequest) UnmarshalJSON(data []byte) error {
	type plain ProFormaRequest
	decoded := plain{ProjectionYears: 5, RentGrowth: 0.03, ExpenseGrowth: 0.025}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = ProFormaRequest(decoded)
	return nil
}

func (p ProFormaRequest) Validate() error {
	if err := p.Scenario.Validate(); err != nil {
		return err
	}
	if p.ProjectionYears < 1 || p.ProjectionYears > 20 {
		return invalid("projection_years", "must be between 1 and 20")
	}
	if err := checkRange("rent_growth", p.RentGrowth, -0.1, 0.2); err != nil {
		return err
	}
	if err := checkRange("expense_growth", p.ExpenseGrowth, -0.1, 0.2); err != nil {
		return err
	}
	if p.ExitCapRate != nil && (math.IsNaN(*p.ExitCapRate) || *p.ExitCapRate <= 0 || *p.ExitCapRate >= 0.5) {
		return invalid("exit_cap_rate", "must be greater than 0 and less than 0.5")
	}
	return nil
}

type ProFormaYear struct {
	Year              int     `json:"year"`
	Rent              float64 `json:"rent"`
	NOI               float64 `json:"noi"`
	CashFlow          float64 `json:"cash_flow"`
	EndingLoanBalance float64 `json:"ending_loan_balance"`
}

type ProForma struct {
	ProjectionYears int            `json:"projection_years"`
	RentGrowth      float64        `json:"rent_growth"`
	ExpenseGrowth   float64        `json:"expense_growth"`
	ExitCapRate     float64        `json:"exit_cap_rate"`
	InitialEquity   float64        `json:"initial_equity"`
	Years           []ProFormaYear `json:"years"`
	CashFlows       []float64      `json:"cash_flows"`
	ExitValue       float64        `json:"exit_value"`
	ExitProceeds    float64        `json:"exit_proceeds"`
	IRR             *float64       `json:"irr"`
}
