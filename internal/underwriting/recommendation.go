package underwriting

import (
	"fmt"

	"dealdesk/server/internal/models"
)

// Call-out thresholds beyond the verdict tiers
const (
	HighlightMinCapRate = 0.07
	RiskMaxExpenseRatio = 0.45
)

const recommendationRationale = "Automated underwriting based on submitted T12, loan terms, and projection" +
	" assumptions. Analyst review required before final bid."

const fallbackHighlight = "Stabilization path improves occupancy and NOI over hold."

// BuildRecommendation reclassifies the base case against the projected IRR
// and lists the highlights and risks an analyst should look at first.
func BuildRecommendation(metrics models.MetricSummary, projection models.ProjectionSummary) models.Recommendation {
	irr := projection.IRR
	verdict := Classify(metrics, irr, true)

	highlights := []string{}
	risks := []string{}

	if metrics.CapRate >= HighlightMinCapRate {
		highlights = append(highlights, fmt.Sprintf("Cap rate of %s meets target.", formatPercent(metrics.CapRate, 1)))
	}
	if metrics.DSCR >= GreenMinDSCR {
		highlights = append(highlights, fmt.Sprintf("DSCR of %s supports lender requirements.", formatRatio(metrics.DSCR)))
	}
	if irr != nil && *irr >= GreenMinIRR {
		highlights = append(highlights, fmt.Sprintf("Projected IRR %s at year %d.", formatPercent(*irr, 1), projection.SaleYear))
	}

	if metrics.CashOnCash < YellowMinCashOnCash {
		risks = append(risks, fmt.Sprintf("Cash-on-cash return is thin at %s.", formatPercent(metrics.CashOnCash, 1)))
	}
	if metrics.DSCR < YellowMinDSCR {
		risks = append(risks, fmt.Sprintf("DSCR falls below lender comfort at %s.", formatRatio(metrics.DSCR)))
	}
	if irr != nil && *irr < YellowMinIRR {
		risks = append(risks, fmt.Sprintf("IRR under 12%% (%s), revisit growth assumptions.", formatPercent(*irr, 1)))
	}
	if metrics.OperatingExpenseRatio > RiskMaxExpenseRatio {
		risks = append(risks, fmt.Sprintf("Operating expense ratio %s may limit NOI growth.", formatPercent(metrics.OperatingExpenseRatio, 1)))
	}

	if len(highlights) == 0 {
		highlights = append(highlights, fallbackHighlight)
	}

	return models.Recommendation{
		Verdict:    verdict,
		Rationale:  recommendationRationale,
		Highlights: highlights,
		Risks:      risks,
		IRR:        irr,
		CashOnCash: metrics.CashOnCash,
		DSCR:       metrics.DSCR,
		CapRate:    metrics.CapRate,
	}
}
