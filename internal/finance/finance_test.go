package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment_ZeroRate(t *testing.T) {
	assert.Equal(t, 1_200_000.0/(25*12), MonthlyPayment(1_200_000, 0, 25))
	assert.Equal(t, 100.0, MonthlyPayment(1200, 0, 1))
}

func TestMonthlyPayment_StandardLoan(t *testing.T) {
	// 1.35M at 6.5% over 25 years
	payment := MonthlyPayment(1_350_000, 0.065, 25)
	assert.InDelta(t, 9115.38, payment, 0.5)
	assert.InDelta(t, payment*12, AnnualDebtService(1_350_000, 0.065, 25), 1e-9)
}

func TestMonthlyPayment_Degenerate(t *testing.T) {
	assert.Zero(t, MonthlyPayment(0, 0.05, 30))
	assert.Zero(t, MonthlyPayment(-10, 0.05, 30))
	assert.Zero(t, MonthlyPayment(100_000, 0.05, 0))
}

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name     string
		loan     float64
		rate     float64
		years    int
		payments int
		expected float64
		delta    float64
	}{
		{"no payments", 500_000, 0.06, 30, 0, 500_000, 1e-6},
		{"fully amortized", 500_000, 0.06, 30, 360, 0, 1e-4},
		{"past maturity is clamped", 500_000, 0.06, 30, 500, 0, 1e-4},
		{"zero rate halfway", 120_000, 0, 10, 60, 60_000, 1e-9},
		{"zero rate fully paid", 120_000, 0, 10, 120, 0, 1e-9},
		{"no loan", 0, 0.06, 30, 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RemainingBalance(tt.loan, tt.rate, tt.years, tt.payments), tt.delta)
		})
	}
}

func TestRemainingBalance_DecreasesOverTime(t *testing.T) {
	prev := RemainingBalance(1_000_000, 0.07, 25, 0)
	for months := 12; months <= 300; months += 12 {
		balance := RemainingBalance(1_000_000, 0.07, 25, months)
		assert.Less(t, balance, prev, "balance after %d months", months)
		assert.GreaterOrEqual(t, balance, 0.0)
		prev = balance
	}
}

func TestRatios_ZeroDenominators(t *testing.T) {
	assert.Zero(t, DSCR(100, 0))
	assert.Zero(t, DebtYield(100, 0))
	assert.Zero(t, CapRate(100, 0))
	assert.Zero(t, CashOnCash(100, 0))
	assert.Zero(t, OperatingExpenseRatio(100, 0))
	assert.Zero(t, LoanToValue(100, 0))
	assert.Zero(t, BreakevenOccupancy(0, 0, 10, 10, 10))
}

func TestRatios(t *testing.T) {
	assert.InDelta(t, 132_720.0, NOI(232_000, 99_280), 1e-9)
	assert.InDelta(t, 232_000.0, EffectiveGrossIncome(240_000, 20_000, 12_000), 1e-9)
	assert.InDelta(t, 0.0737, CapRate(132_720, 1_800_000), 1e-4)
	assert.InDelta(t, 0.75, LoanToValue(1_350_000, 1_800_000), 1e-12)
	assert.Equal(t, 1.0, BreakevenOccupancy(100, 0, 80, 50, 10))
	assert.InDelta(t, 0.5, BreakevenOccupancy(100, 100, 50, 40, 10), 1e-12)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.3))
	assert.Equal(t, 0.4, Clamp01(0.4))
}

func TestIRR_KnownSeries(t *testing.T) {
	// -100 then 110 one period later is exactly 10%
	rate, ok := IRR([]float64{-100, 110})
	require.True(t, ok)
	assert.InDelta(t, 0.10, rate, 1e-6)

	rate, ok = IRR([]float64{-1000, 300, 400, 500})
	require.True(t, ok)
	assert.InDelta(t, 0.0889633947, rate, 1e-6)
	assert.InDelta(t, 0, NPV(rate, []float64{-1000, 300, 400, 500}), 1e-3)
}

func TestIRR_NegativeRate(t *testing.T) {
	cashFlows := []float64{-1000, 100, 100, 100}
	rate, ok := IRR(cashFlows)
	require.True(t, ok)
	assert.InDelta(t, -0.42442, rate, 1e-4)
	// the root lies within the bisection tolerance of rate
	assert.Greater(t, NPV(rate-1e-5, cashFlows), 0.0)
	assert.Less(t, NPV(rate+1e-5, cashFlows), 0.0)
	assert.InDelta(t, 0, NPV(rate, cashFlows), 1e-2)
}

func TestIRR_NoSignChange(t *testing.T) {
	_, ok := IRR([]float64{-100, -10, -5})
	assert.False(t, ok)

	_, ok = IRR([]float64{100, 10, 5})
	assert.False(t, ok)

	_, ok = IRR(nil)
	assert.False(t, ok)
}

func TestIRR_HighReturn(t *testing.T) {
	// A 50,000x ten-year return sits far from the Newton seed.
	cashFlows := []float64{-1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 50_000}
	rate, ok := IRR(cashFlows)
	require.True(t, ok)
	assert.False(t, math.IsNaN(rate))
	assert.InDelta(t, 0, NPV(rate, cashFlows), 1e-3)
}

func TestIRR_IterationBudget(t *testing.T) {
	longShot := make([]float64, 21)
	longShot[0], longShot[20] = -1, 1e30

	tests := []struct {
		name      string
		cashFlows []float64
		want      float64
		fallback  bool
	}{
		{"newton", []float64{-1000, 300, 400, 500}, 0.0889633947, false},
		{"newton leaves the domain", []float64{-1000, 100, 100, 100}, -0.42441744, true},
		// Newton spends its whole share; the bracket has to widen past 1
		{"newton runs out", longShot, math.Pow(10, 1.5) - 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok, used := solveIRR(tt.cashFlows)
			require.True(t, ok)
			assert.InDelta(t, tt.want, rate, 1e-5)
			assert.LessOrEqual(t, used, IRRMaxIterations)
			if tt.fallback {
				_, newtonOK, _ := newtonIRR(tt.cashFlows, irrNewtonIterations)
				assert.False(t, newtonOK)
			}
		})
	}
}

func TestIRR_BudgetExhausted(t *testing.T) {
	_, ok, spent := bisectIRR([]float64{-1000, 100, 100, 100}, 5)
	assert.False(t, ok)
	assert.Equal(t, 5, spent)
}
