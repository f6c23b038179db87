package underwriting

import (
	"dealdesk/server/internal/finance"
	"dealdesk/server/internal/models"
)

// ScenarioOverrides perturbs the normalized inputs for one scenario. The zero
// value is not neutral; start from DefaultOverrides.
type ScenarioOverrides struct {
	RentMultiplier       float64
	OccupancyOverride    *float64
	ExpenseMultiplier    float64
	InterestRateOverride *float64
	AdditionalCapex      float64
}

// DefaultOverrides leaves every input untouched
func DefaultOverrides() ScenarioOverrides {
	return ScenarioOverrides{
		RentMultiplier:    1,
		ExpenseMultiplier: 1,
	}
}

// ScenarioSpec names a scenario and records its assumptions for audit
type ScenarioSpec struct {
	Kind        models.ScenarioKind
	Description string
	Assumptions map[string]float64
	Overrides   ScenarioOverrides
}

// EvaluateScenario computes the metric summary for one scenario. The base
// inputs are read only; the result is freshly allocated.
func EvaluateScenario(n NormalizedInputs, spec ScenarioSpec) models.ScenarioResult {
	o := spec.Overrides

	grossRent := n.GrossPotentialRent * o.RentMultiplier
	otherIncome := n.OtherIncome * o.RentMultiplier

	var vacancyLoss, occupancy float64
	if o.OccupancyOverride != nil {
		occupancy = finance.Clamp01(*o.OccupancyOverride)
		vacancyLoss = grossRent * (1 - occupancy)
	} else {
		vacancyLoss = n.VacancyLoss * o.RentMultiplier
		if grossRent > 0 {
			occupancy = finance.Clamp01(1 - vacancyLoss/grossRent)
		} else {
			occupancy = n.ImpliedOccupancy()
		}
	}

	egi := finance.EffectiveGrossIncome(grossRent, vacancyLoss, otherIncome)
	operatingExpenses := n.OperatingExpenses * o.ExpenseMultiplier

	rate := n.InterestRate()
	if o.InterestRateOverride != nil && *o.InterestRateOverride != 0 {
		rate = *o.InterestRateOverride
	}
	debtService := finance.AnnualDebtService(n.LoanAmount, rate, n.AmortizationYears())

	noi := finance.NOI(egi, operatingExpenses)
	netCashFlow := noi - debtService - n.CapitalReserves - o.AdditionalCapex
	equity := n.Equity()

	metrics := models.MetricSummary{
		EffectiveGrossIncome:  egi,
		NOI:                   noi,
		OperatingExpenses:     operatingExpenses,
		OperatingExpenseRatio: finance.OperatingExpenseRatio(operatingExpenses, egi),
		CapRate:               finance.CapRate(noi, n.PurchasePrice),
		DSCR:                  finance.DSCR(noi, debtService),
		DebtYield:             finance.DebtYield(noi, n.LoanAmount),
		CashOnCash:            finance.CashOnCash(netCashFlow, equity),
		AnnualDebtService:     debtService,
		LoanToValue:           n.LoanToValue(),
		Equity:                equity,
		NetCashFlow:           netCashFlow,
		BreakevenOccupancy:    finance.BreakevenOccupancy(grossRent, otherIncome, operatingExpenses, debtService, n.CapitalReserves),
		Occupancy:             occupancy,
	}

	assumptions := make(map[string]float64, len(spec.Assumptions))
	for k, v := range spec.Assumptions {
		assumptions[k] = v
	}

	return models.ScenarioResult{
		Kind:           spec.Kind,
		Name:           spec.Kind.Name(),
		Description:    spec.Description,
		Assumptions:    assumptions,
		Metrics:        metrics,
		Classification: Classify(metrics, nil, false),
	}
}

// BaseCase evaluates the supplied T12 and loan terms without perturbation
func BaseCase(n NormalizedInputs) models.ScenarioResult {
	return EvaluateScenario(n, ScenarioSpec{
		Kind:        models.ScenarioBase,
		Description: "Baseline underwriting using supplied T12 and loan terms.",
		Assumptions: map[string]float64{
			"rent_multiplier":    1.0,
			"vacancy_rate":       n.VacancyRate(),
			"expense_multiplier": 1.0,
			"interest_rate":      n.InterestRate(),
		},
		Overrides: DefaultOverrides(),
	})
}
