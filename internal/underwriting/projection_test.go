package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/server/internal/models"
)

func TestProject_SampleDeal(t *testing.T) {
	n := sampleNormalized()
	summary, ok := Project(n)
	require.True(t, ok)

	require.Len(t, summary.Years, n.ExitYear)
	require.Len(t, summary.CashFlows, n.ExitYear+1)
	assert.Equal(t, 10, summary.SaleYear)
	assert.Equal(t, -450_000.0, summary.CashFlows[0])
	assert.InDelta(t, 15_814.44, summary.CashFlows[1], 0.01)
	assert.InDelta(t, 2_034_637.57, summary.CashFlows[10], 0.05)

	require.NotNil(t, summary.IRR)
	assert.InDelta(t, 0.2078, *summary.IRR, 1e-4)
	require.NotNil(t, summary.EquityMultiple)
	assert.InDelta(t, 5.3957, *summary.EquityMultiple, 1e-3)

	assert.InDelta(t, 3_006_971.35, summary.ExitValue, 0.05)
	last := summary.Years[len(summary.Years)-1]
	assert.InDelta(t, 1_046_403.35, last.EndingLoanBalance, 0.05)
	assert.InDelta(t, summary.ExitValue-last.EndingLoanBalance, summary.ExitProceeds, 1e-6)
}

func TestProject_YearsAreSequential(t *testing.T) {
	summary, _ := Project(sampleNormalized())
	for i, y := range summary.Years {
		assert.Equal(t, i+1, y.Year)
		assert.InDelta(t, y.NetCashFlow, summary.CashFlows[i+1], 1e-9)
	}
}

func TestProject_LoanBalanceHoldsAfterTerm(t *testing.T) {
	req := sampleRequest()
	req.Loan.TermYears = 5
	n, _, err := Normalize(req, models.DefaultAssumptions(), nil)
	require.NoError(t, err)

	summary, _ := Project(n)
	for _, y := range summary.Years[5:] {
		assert.Equal(t, summary.Years[4].EndingLoanBalance, y.EndingLoanBalance)
	}
	assert.Less(t, summary.Years[4].EndingLoanBalance, summary.Years[3].EndingLoanBalance)
}

func TestProjectedOccupancy_Ramp(t *testing.T) {
	n := sampleNormalized()

	assert.InDelta(t, 0.9+0.05/3, ProjectedOccupancy(n, 1), 1e-12)
	assert.InDelta(t, 0.9+0.1/3, ProjectedOccupancy(n, 2), 1e-12)
	assert.InDelta(t, 0.95, ProjectedOccupancy(n, 3), 1e-12)
	assert.InDelta(t, 0.95, ProjectedOccupancy(n, 9), 1e-12)

	prev := n.OccupancyRate()
	for year := 1; year <= n.ExitYear; year++ {
		occ := ProjectedOccupancy(n, year)
		assert.GreaterOrEqual(t, occ, prev)
		assert.LessOrEqual(t, occ, n.StabilizedOccupancy)
		prev = occ
	}
}

func TestProjectedOccupancy_AlreadyStabilized(t *testing.T) {
	req := sampleRequest()
	req.Property.OccupancyRate = 0.97
	n, _, err := Normalize(req, models.DefaultAssumptions(), nil)
	require.NoError(t, err)

	for year := 1; year <= n.ExitYear; year++ {
		assert.Equal(t, 0.97, ProjectedOccupancy(n, year))
	}
}

func TestProject_UnsolvableIRR(t *testing.T) {
	req := sampleRequest()
	req.T12.OtherIncome = 0
	req.T12.GrossPotentialRent = 0
	req.T12.VacancyLoss = 0
	assumptions := models.DefaultAssumptions()
	assumptions.ExitYear = 3
	n, _, err := Normalize(req, assumptions, nil)
	require.NoError(t, err)

	summary, ok := Project(n)
	assert.False(t, ok)
	assert.Nil(t, summary.IRR)
	assert.Zero(t, summary.ExitProceeds)
	require.NotNil(t, summary.EquityMultiple)
	assert.Less(t, *summary.EquityMultiple, 0.0)
}
