package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/server/internal/models"
)

func TestBuildRecommendation_SampleDeal(t *testing.T) {
	n := sampleNormalized()
	base := BaseCase(n)
	projection, ok := Project(n)
	require.True(t, ok)

	rec := BuildRecommendation(base.Metrics, projection)

	assert.Equal(t, models.VerdictRed, rec.Verdict)
	assert.Equal(t, []string{
		"Cap rate of 7.4% meets target.",
		"Projected IRR 20.8% at year 10.",
	}, rec.Highlights)
	assert.Equal(t, []string{"Cash-on-cash return is thin at 2.5%."}, rec.Risks)
	assert.Equal(t, projection.IRR, rec.IRR)
	assert.Equal(t, base.Metrics.DSCR, rec.DSCR)
	assert.Equal(t, base.Metrics.CapRate, rec.CapRate)
	assert.Equal(t, base.Metrics.CashOnCash, rec.CashOnCash)
	assert.Contains(t, rec.Rationale, "Analyst review required")
}

func TestBuildRecommendation_Fallbacks(t *testing.T) {
	metrics := models.MetricSummary{
		DSCR:                  1.0,
		CashOnCash:            0.02,
		CapRate:               0.05,
		OperatingExpenseRatio: 0.55,
	}
	projection := models.ProjectionSummary{IRR: floatPtr(0.08), SaleYear: 7}

	rec := BuildRecommendation(metrics, projection)

	assert.Equal(t, models.VerdictRed, rec.Verdict)
	assert.Equal(t, []string{fallbackHighlight}, rec.Highlights)
	assert.Equal(t, []string{
		"Cash-on-cash return is thin at 2.0%.",
		"DSCR falls below lender comfort at 1.00.",
		"IRR under 12% (8.0%), revisit growth assumptions.",
		"Operating expense ratio 55.0% may limit NOI growth.",
	}, rec.Risks)
}

func TestBuildRecommendation_Green(t *testing.T) {
	metrics := models.MetricSummary{DSCR: 1.5, CashOnCash: 0.10, CapRate: 0.09, OperatingExpenseRatio: 0.35}
	projection := models.ProjectionSummary{IRR: floatPtr(0.18), SaleYear: 10}

	rec := BuildRecommendation(metrics, projection)

	assert.Equal(t, models.VerdictGreen, rec.Verdict)
	assert.Len(t, rec.Highlights, 3)
	assert.Contains(t, rec.Highlights, "DSCR of 1.50 supports lender requirements.")
	assert.NotNil(t, rec.Risks)
	assert.Empty(t, rec.Risks)
}

func TestBuildRecommendation_MissingIRRIsRed(t *testing.T) {
	metrics := models.MetricSummary{DSCR: 1.5, CashOnCash: 0.10, CapRate: 0.09}

	rec := BuildRecommendation(metrics, models.ProjectionSummary{SaleYear: 10})

	assert.Equal(t, models.VerdictRed, rec.Verdict)
	assert.Nil(t, rec.IRR)
}
