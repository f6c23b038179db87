package screening

import "dealdesk/server/internal/models"

// Buy-box criterion keys
const (
	CheckDSCR        = "dscr_check"
	CheckDebtYield   = "debt_yield_check"
	CheckCapRate     = "cap_rate_check"
	CheckPricePerPad = "price_per_pad_check"
)

// EvaluateBuyBox checks a scenario against the acquisition thresholds. The
// deal passes only when every criterion does.
func EvaluateBuyBox(scenario models.ScreeningScenario, criteria models.BuyBoxCriteria) models.BuyBoxEvaluation {
	m := scenario.Metrics

	checks := map[string]models.CriterionCheck{
		CheckDSCR:        atLeast(m.DSCR, criteria.MinDSCR),
		CheckDebtYield:   atLeast(m.DebtYield, criteria.MinDebtYield),
		CheckCapRate:     atLeast(m.CapRate, criteria.MinCapRate),
		CheckPricePerPad: atMost(m.ValuePerPad, criteria.MaxPricePerPad),
	}

	eval := models.BuyBoxEvaluation{
		PassesBuyBox: true,
		Criteria:     checks,
		Summary:      models.BuyBoxSummary{TotalChecks: len(checks)},
	}
	for _, c := range checks {
		if c.Passes {
			eval.Summary.Passed++
		} else {
			eval.Summary.Failed++
			eval.PassesBuyBox = false
		}
	}
	return eval
}

func atLeast(value, threshold float64) models.CriterionCheck {
	return models.CriterionCheck{Passes: value >= threshold, Value: value, Threshold: threshold, Delta: value - threshold}
}

func atMost(value, threshold float64) models.CriterionCheck {
	return models.CriterionCheck{Passes: value <= threshold, Value: value, Threshold: threshold, Delta: threshold - value}
}
