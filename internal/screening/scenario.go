// Package screening implements the quick-screen tools used before a deal is
// fully underwritten: a rent-roll base case, a sensitivity grid, buy-box
// checks and a short pro forma. All math goes through package finance so
// the numbers agree with the underwriting engine.
package screening

import (
	"fmt"

	"dealdesk/server/internal/finance"
	"dealdesk/server/internal/models"
)

// Stress grid types
const (
	StressRent      = "rent_stress"
	StressOccupancy = "occupancy_stress"
	StressExpense   = "expense_stress"
	StressRate      = "rate_stress"
)

var (
	rentDeltas        = []float64{-10, -25, -50}
	occupancyLevels   = []float64{0.85, 0.80, 0.70}
	expenseMultiplier = []float64{1.1, 1.2, 1.3}
	rateDeltas        = []float64{0.01, 0.02}
)

// BaseScenario evaluates the inputs as given. Operating expenses, property
// tax and insurance together make up total opex; vacancy applies to rent.
func BaseScenario(in models.ScenarioInputs) models.ScreeningScenario {
	grossIncome := float64(in.PadCount) * in.CurrentRent * 12
	vacancyLoss := grossIncome * (1 - in.OccupancyRate)
	egi := finance.EffectiveGrossIncome(grossIncome, vacancyLoss, 0)

	totalOpex := in.OperatingExpenses + in.PropertyTax + in.Insurance
	noi := finance.NOI(egi, totalOpex)

	loanAmount := in.PurchasePrice * in.LoanLTV
	equity := in.PurchasePrice - loanAmount
	debtService := finance.AnnualDebtService(loanAmount, in.InterestRate, in.TermYears)
	cashFlow := noi - debtService

	var valuePerPad float64
	if in.PadCount > 0 {
		valuePerPad = in.PurchasePrice / float64(in.PadCount)
	}

	return models.ScreeningScenario{
		Inputs: in,
		Revenue: models.ScreeningRevenue{
			GrossIncome: grossIncome,
			VacancyLoss: vacancyLoss,
			EGI:         egi,
		},
		Expenses: models.ScreeningExpenses{
			OperatingExpenses: in.OperatingExpenses,
			PropertyTax:       in.PropertyTax,
			Insurance:         in.Insurance,
			TotalOpex:         totalOpex,
			ExpenseRatio:      finance.OperatingExpenseRatio(totalOpex, grossIncome),
		},
		NOI: noi,
		Financing: models.ScreeningFinancing{
			LoanAmount:        loanAmount,
			Equity:            equity,
			AnnualDebtService: debtService,
		},
		CashFlow: cashFlow,
		Metrics: models.ScreeningMetrics{
			CapRate:     finance.CapRate(noi, in.PurchasePrice),
			DSCR:        finance.DSCR(noi, debtService),
			DebtYield:   finance.DebtYield(noi, loanAmount),
			CashOnCash:  finance.CashOnCash(cashFlow, equity),
			ValuePerPad: valuePerPad,
		},
	}
}

// StressGrid re-runs the base scenario under one-factor shocks: rent cuts,
// occupancy drops, opex increases and rate increases, in that order.
func StressGrid(in models.ScenarioInputs) []models.ScreeningScenario {
	scenarios := make([]models.ScreeningScenario, 0, len(rentDeltas)+len(occupancyLevels)+len(expenseMultiplier)+len(rateDeltas))

	for _, delta := range rentDeltas {
		shocked := in
		shocked.CurrentRent += delta
		scenarios = append(scenarios, named(shocked, fmt.Sprintf("Rent %+.0f/month", delta), StressRent))
	}
	for _, occ := range occupancyLevels {
		shocked := in
		shocked.OccupancyRate = occ
		scenarios = append(scenarios, named(shocked, fmt.Sprintf("Occupancy %.0f%%", occ*100), StressOccupancy))
	}
	for _, mult := range expenseMultiplier {
		shocked := in
		shocked.OperatingExpenses *= mult
		scenarios = append(scenarios, named(shocked, fmt.Sprintf("OpEx +%.0f%%", (mult-1)*100), StressExpense))
	}
	for _, delta := range rateDeltas {
		shocked := in
		shocked.InterestRate += delta
		scenarios = append(scenarios, named(shocked, fmt.Sprintf("Rate +%.0fbps", delta*10_000), StressRate))
	}

	return scenarios
}

func named(in models.ScenarioInputs, name, kind string) models.ScreeningScenario {
	s := BaseScenario(in)
	s.Name = name
	s.Type = kind
	return s
}
