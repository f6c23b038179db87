package underwriting

import (
	"fmt"
	"math"

	"dealdesk/server/internal/models"
)

// StressKinds is the fixed order stress scenarios are reported in
var StressKinds = []models.ScenarioKind{
	models.ScenarioDownside,
	models.ScenarioUpside,
	models.ScenarioRateShock,
	models.ScenarioCapexHit,
}

// StressTests runs the four canonical stress scenarios in StressKinds order
func StressTests(n NormalizedInputs) []models.ScenarioResult {
	results := make([]models.ScenarioResult, 0, len(StressKinds))
	for _, kind := range StressKinds {
		results = append(results, EvaluateScenario(n, stressSpec(n, kind)))
	}
	return results
}

func stressSpec(n NormalizedInputs, kind models.ScenarioKind) ScenarioSpec {
	a := n.Assumptions
	overrides := DefaultOverrides()

	switch kind {
	case models.ScenarioDownside:
		occupancy := math.Max(0, n.OccupancyRate()-a.DownsideVacancyDelta)
		overrides.OccupancyOverride = &occupancy
		overrides.ExpenseMultiplier = 1 + a.DownsideExpenseIncrease
		return ScenarioSpec{
			Kind:        kind,
			Description: fmt.Sprintf("Occupancy drops to %s and expenses climb %s.", formatPercent(occupancy, 0), formatPercent(a.DownsideExpenseIncrease, 0)),
			Assumptions: map[string]float64{
				"occupancy":          occupancy,
				"expense_multiplier": overrides.ExpenseMultiplier,
			},
			Overrides: overrides,
		}

	case models.ScenarioUpside:
		occupancy := math.Max(n.OccupancyRate(), a.StabilizedOccupancy)
		overrides.OccupancyOverride = &occupancy
		overrides.RentMultiplier = 1 + a.UpsideRentGrowth
		return ScenarioSpec{
			Kind:        kind,
			Description: fmt.Sprintf("Occupancy stabilizes at %s and rents increase %s.", formatPercent(occupancy, 0), formatPercent(a.UpsideRentGrowth, 0)),
			Assumptions: map[string]float64{
				"occupancy":       occupancy,
				"rent_multiplier": overrides.RentMultiplier,
			},
			Overrides: overrides,
		}

	case models.ScenarioRateShock:
		// Debt service keeps the loan's original amortization term.
		rate := n.InterestRate() + a.InterestRateShock
		overrides.InterestRateOverride = &rate
		return ScenarioSpec{
			Kind:        kind,
			Description: fmt.Sprintf("Refinance or rate environment shifts +%.0f bps.", a.InterestRateShock*10_000),
			Assumptions: map[string]float64{"interest_rate": rate},
			Overrides:   overrides,
		}

	case models.ScenarioCapexHit:
		overrides.AdditionalCapex = a.MajorCapexAmount
		return ScenarioSpec{
			Kind:        kind,
			Description: fmt.Sprintf("Immediate %s capital project executed in Year 1.", formatCurrency(a.MajorCapexAmount)),
			Assumptions: map[string]float64{"one_time_capex": a.MajorCapexAmount},
			Overrides:   overrides,
		}

	default:
		panic(fmt.Sprintf("underwriting: no stress definition for %s", kind.Name()))
	}
}
