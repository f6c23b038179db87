package underwriting

import (
	"dealdesk/server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// sampleRequest is a 40 unit park bought at 1.8M with 75% leverage
func sampleRequest() models.RunRequest {
	return models.RunRequest{
		Property: models.PropertyProfile{
			Name:          "Shady Pines",
			Units:         40,
			OccupancyRate: 0.90,
			AverageRent:   500,
			PurchasePrice: 1_800_000,
		},
		Loan: models.LoanTerms{
			LoanAmount:        floatPtr(1_350_000),
			InterestRate:      0.065,
			AmortizationYears: 25,
			TermYears:         10,
		},
		T12: models.T12Financials{
			GrossPotentialRent: 240_000,
			VacancyLoss:        20_000,
			OtherIncome:        12_000,
			OperatingExpenses: []models.ExpenseLine{
				{Category: "taxes", Amount: 30_000},
				{Category: "insurance", Amount: 15_000},
				{Category: "utilities", Amount: 25_000},
				{Category: "repairs", Amount: 20_000},
			},
			CapitalReserves:      12_000,
			ManagementFeeRate:    0.04,
			IncludeManagementFee: true,
		},
	}
}

func sampleNormalized() NormalizedInputs {
	n, _, err := Normalize(sampleRequest(), models.DefaultAssumptions(), nil)
	if err != nil {
		panic(err)
	}
	return n
}
