package screening

import (
	"math"

	"dealdesk/server/internal/finance"
	"dealdesk/server/internal/models"
)

// ExitCapExpansion is added to the going-in cap rate when no exit cap is given
const ExitCapExpansion = 0.005

// ProForma grows rent and operating expenses for the requested number of
// years and sells at the end. Property tax and insurance stay flat. The
// loan payoff at sale is the amortized balance after the hold.
func ProForma(req models.ProFormaRequest) models.ProForma {
	in := req.Scenario
	base := BaseScenario(in)

	exitCap := base.Metrics.CapRate + ExitCapExpansion
	if req.ExitCapRate != nil {
		exitCap = *req.ExitCapRate
	}

	equity := base.Financing.Equity
	cashFlows := make([]float64, 0, req.ProjectionYears+1)
	cashFlows = append(cashFlows, -equity)
	years := make([]models.ProFormaYear, 0, req.ProjectionYears)

	out := models.ProForma{
		ProjectionYears: req.ProjectionYears,
		RentGrowth:      req.RentGrowth,
		ExpenseGrowth:   req.ExpenseGrowth,
		ExitCapRate:     exitCap,
		InitialEquity:   equity,
	}

	for year := 1; year <= req.ProjectionYears; year++ {
		grown := in
		grown.CurrentRent = in.CurrentRent * math.Pow(1+req.RentGrowth, float64(year))
		grown.OperatingExpenses = in.OperatingExpenses * math.Pow(1+req.ExpenseGrowth, float64(year))
		yearScenario := BaseScenario(grown)

		balance := finance.RemainingBalance(base.Financing.LoanAmount, in.InterestRate, in.TermYears, year*12)
		cashFlow := yearScenario.CashFlow

		if year == req.ProjectionYears {
			if exitCap > 0 {
				out.ExitValue = yearScenario.NOI / exitCap
			}
			out.ExitProceeds = out.ExitValue - balance
			cashFlow += out.ExitProceeds
		}

		cashFlows = append(cashFlows, cashFlow)
		years = append(years, models.ProFormaYear{
			Year:              year,
			Rent:              grown.CurrentRent,
			NOI:               yearScenario.NOI,
			CashFlow:          cashFlow,
			EndingLoanBalance: balance,
		})
	}

	out.Years = years
	out.CashFlows = cashFlows
	if rate, ok := finance.IRR(cashFlows); ok {
		out.IRR = &rate
	}
	return out
}
