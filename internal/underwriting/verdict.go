package underwriting

import "dealdesk/server/internal/models"

// Verdict thresholds
const (
	GreenMinDSCR       = 1.25
	GreenMinCashOnCash = 0.08
	GreenMinIRR        = 0.15

	YellowMinDSCR       = 1.15
	YellowMinCashOnCash = 0.06
	YellowMinIRR        = 0.12
)

// Classify maps scenario metrics and an optional IRR to a verdict. When
// requireIRR is set a missing IRR can never clear the GREEN or YELLOW bar.
func Classify(metrics models.MetricSummary, irr *float64, requireIRR bool) models.Verdict {
	irrGreen := irrClears(irr, requireIRR, GreenMinIRR)
	irrYellow := irrClears(irr, requireIRR, YellowMinIRR)

	switch {
	case metrics.DSCR >= GreenMinDSCR && metrics.CashOnCash >= GreenMinCashOnCash && irrGreen:
		return models.VerdictGreen
	case metrics.DSCR >= YellowMinDSCR && metrics.CashOnCash >= YellowMinCashOnCash && irrYellow:
		return models.VerdictYellow
	default:
		return models.VerdictRed
	}
}

func irrClears(irr *float64, requireIRR bool, threshold float64) bool {
	if irr == nil {
		return !requireIRR
	}
	return *irr >= threshold
}
