package finance

// Ratio primitives shared by the underwriting engine and the screening
// endpoints. Every division guards its denominator and yields 0 instead.

// NOI is effective gross income less operating expenses.
func NOI(effectiveGrossIncome, operatingExpenses float64) float64 {
	return effectiveGrossIncome - operatingExpenses
}

// EffectiveGrossIncome is gross potential rent less all vacancy-type losses
// plus other income.
func EffectiveGrossIncome(grossPotentialRent, vacancyLoss, otherIncome float64) float64 {
	return grossPotentialRent - vacancyLoss + otherIncome
}

func DSCR(noi, annualDebtService float64) float64 {
	return safeDiv(noi, annualDebtService)
}

func DebtYield(noi, loanAmount float64) float64 {
	return safeDiv(noi, loanAmount)
}

func CapRate(noi, propertyValue float64) float64 {
	return safeDiv(noi, propertyValue)
}

func CashOnCash(cashFlow, equity float64) float64 {
	return safeDiv(cashFlow, equity)
}

func OperatingExpenseRatio(operatingExpenses, effectiveGrossIncome float64) float64 {
	return safeDiv(operatingExpenses, effectiveGrossIncome)
}

func LoanToValue(loanAmount, purchasePrice float64) float64 {
	if purchasePrice <= 0 {
		return 0
	}
	return loanAmount / purchasePrice
}

// BreakevenOccupancy is the share of potential income needed to cover
// expenses, debt service and reserves, clamped to [0,1].
func BreakevenOccupancy(grossPotentialRent, otherIncome, operatingExpenses, debtService, capitalReserves float64) float64 {
	denominator := grossPotentialRent + otherIncome
	if denominator <= 0 {
		return 0
	}
	return Clamp01((operatingExpenses + debtService + capitalReserves) / denominator)
}

// Clamp01 bounds v to the unit interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
