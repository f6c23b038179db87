package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/server/internal/models"
)

func TestBaseCase_SampleDeal(t *testing.T) {
	n := sampleNormalized()
	base := BaseCase(n)
	m := base.Metrics

	assert.Equal(t, "Base Case", base.Name)
	assert.Equal(t, models.ScenarioBase, base.Kind)
	assert.InDelta(t, n.EffectiveGrossIncome(), m.EffectiveGrossIncome, 1e-6)
	assert.InDelta(t, n.OperatingExpenses, m.OperatingExpenses, 1e-6)
	assert.InDelta(t, 232_000.0, m.EffectiveGrossIncome, 1e-6)
	assert.InDelta(t, 132_720.0, m.NOI, 1e-6)
	assert.InDelta(t, 0.0737, m.CapRate, 1e-4)
	assert.InDelta(t, 1.2133, m.DSCR, 1e-4)
	assert.InDelta(t, 109_383.56, m.AnnualDebtService, 0.01)
	assert.InDelta(t, 132_720.0/1_350_000.0, m.DebtYield, 1e-9)
	assert.InDelta(t, 11_336.44, m.NetCashFlow, 0.01)
	assert.InDelta(t, m.NetCashFlow/450_000, m.CashOnCash, 1e-12)
	assert.InDelta(t, 1-20_000.0/240_000.0, m.Occupancy, 1e-12)
	assert.InDelta(t, 99_280.0/232_000.0, m.OperatingExpenseRatio, 1e-12)
	assert.InDelta(t, (99_280+m.AnnualDebtService+12_000)/252_000, m.BreakevenOccupancy, 1e-12)
	assert.Equal(t, 0.75, m.LoanToValue)
	assert.Equal(t, 450_000.0, m.Equity)
	assert.Equal(t, models.VerdictRed, base.Classification)
}

func TestEvaluateScenario_DoesNotMutateInputs(t *testing.T) {
	n := sampleNormalized()
	before := n
	occupancy := 0.5
	spec := ScenarioSpec{
		Kind:        models.ScenarioDownside,
		Assumptions: map[string]float64{"occupancy": occupancy},
		Overrides: ScenarioOverrides{
			RentMultiplier:    0.9,
			OccupancyOverride: &occupancy,
			ExpenseMultiplier: 1.2,
		},
	}

	result := EvaluateScenario(n, spec)
	result.Assumptions["occupancy"] = 0.99

	assert.Equal(t, before.GrossPotentialRent, n.GrossPotentialRent)
	assert.Equal(t, before.OperatingExpenses, n.OperatingExpenses)
	assert.Equal(t, 0.5, spec.Assumptions["occupancy"])
}

func TestEvaluateScenario_OccupancyOverrideClamped(t *testing.T) {
	n := sampleNormalized()
	over := 1.4
	overrides := DefaultOverrides()
	overrides.OccupancyOverride = &over

	result := EvaluateScenario(n, ScenarioSpec{Kind: models.ScenarioUpside, Overrides: overrides})
	assert.Equal(t, 1.0, result.Metrics.Occupancy)
	assert.InDelta(t, 252_000.0, result.Metrics.EffectiveGrossIncome, 1e-6)
}

func TestEvaluateScenario_ZeroRentFallsBackToImpliedOccupancy(t *testing.T) {
	req := sampleRequest()
	req.T12.GrossPotentialRent = 0
	req.T12.VacancyLoss = 0
	req.T12.OtherIncome = 50_000
	n, _, err := Normalize(req, models.DefaultAssumptions(), nil)
	require.NoError(t, err)

	result := BaseCase(n)
	assert.Equal(t, n.ImpliedOccupancy(), result.Metrics.Occupancy)
	assert.Equal(t, 1.0, result.Metrics.Occupancy)
}

func TestEvaluateScenario_ZeroEGI(t *testing.T) {
	req := sampleRequest()
	req.T12 = models.T12Financials{}
	n, _, err := Normalize(req, models.DefaultAssumptions(), nil)
	require.NoError(t, err)

	m := BaseCase(n).Metrics
	assert.Zero(t, m.EffectiveGrossIncome)
	assert.Zero(t, m.OperatingExpenseRatio)
	assert.Zero(t, m.BreakevenOccupancy)
	assert.Zero(t, m.CapRate)
	assert.Less(t, m.NetCashFlow, 0.0)
}
