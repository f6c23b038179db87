package underwriting

import (
	"math"

	"dealdesk/server/internal/finance"
	"dealdesk/server/internal/models"
)

// Project builds the year-by-year hold plan through the exit sale and solves
// its IRR. ok is false when the IRR could not be solved; the summary then
// carries a nil IRR.
func Project(n NormalizedInputs) (summary models.ProjectionSummary, irrSolved bool) {
	equity := n.Equity()
	cashFlows := make([]float64, 0, n.ExitYear+1)
	cashFlows = append(cashFlows, -equity)
	years := make([]models.ProjectionYear, 0, n.ExitYear)

	debtService := finance.AnnualDebtService(n.LoanAmount, n.InterestRate(), n.AmortizationYears())

	var exitValue, exitProceeds float64
	for year := 1; year <= n.ExitYear; year++ {
		occupancy := ProjectedOccupancy(n, year)
		rentFactor := math.Pow(1+n.RentGrowth, float64(year))
		grossRent := n.GrossPotentialRent * rentFactor
		otherIncome := n.OtherIncome * rentFactor
		vacancyLoss := grossRent * (1 - occupancy)
		egi := finance.EffectiveGrossIncome(grossRent, vacancyLoss, otherIncome)
		operatingExpenses := n.OperatingExpenses * math.Pow(1+n.ExpenseGrowth, float64(year))
		noi := finance.NOI(egi, operatingExpenses)

		netCashFlow := noi - debtService - n.CapitalReserves
		balance := finance.RemainingBalance(
			n.LoanAmount,
			n.InterestRate(),
			n.AmortizationYears(),
			min(year, n.TermYears())*12,
		)

		if year == n.ExitYear {
			if n.ExitCapRate != 0 {
				exitValue = noi / n.ExitCapRate
			}
			exitProceeds = math.Max(exitValue-balance, 0)
			netCashFlow += exitProceeds
		}

		cashFlows = append(cashFlows, netCashFlow)
		years = append(years, models.ProjectionYear{
			Year:                 year,
			Occupancy:            occupancy,
			GrossPotentialRent:   grossRent,
			OtherIncome:          otherIncome,
			VacancyLoss:          vacancyLoss,
			EffectiveGrossIncome: egi,
			OperatingExpenses:    operatingExpenses,
			NOI:                  noi,
			AnnualDebtService:    debtService,
			CapitalReserves:      n.CapitalReserves,
			NetCashFlow:          netCashFlow,
			EndingLoanBalance:    balance,
		})
	}

	summary = models.ProjectionSummary{
		Years:        years,
		CashFlows:    cashFlows,
		ExitValue:    exitValue,
		ExitProceeds: exitProceeds,
		SaleYear:     n.ExitYear,
	}

	if rate, ok := finance.IRR(cashFlows); ok {
		summary.IRR = &rate
		irrSolved = true
	}

	if equity > 0 {
		total := 0.0
		for _, cf := range cashFlows[1:] {
			total += cf
		}
		multiple := total / equity
		summary.EquityMultiple = &multiple
	}

	return summary, irrSolved
}

// ProjectedOccupancy ramps linearly from the current occupancy to the
// stabilized target over the stabilization period, then holds flat.
func ProjectedOccupancy(n NormalizedInputs, year int) float64 {
	current := n.OccupancyRate()
	if current >= n.StabilizedOccupancy {
		return current
	}

	rampYears := n.StabilizationYears
	if rampYears < 1 {
		rampYears = 1
	}
	progress := min(year, rampYears)
	occupancy := current + (n.StabilizedOccupancy-current)*float64(progress)/float64(rampYears)
	return math.Max(0, math.Min(occupancy, n.StabilizedOccupancy))
}
