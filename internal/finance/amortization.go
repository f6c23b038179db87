package finance

import "math"

// MonthlyPayment returns the level monthly payment for a fully amortizing loan.
// A zero rate spreads principal evenly across the amortization period.
func MonthlyPayment(loanAmount, annualRate float64, amortizationYears int) float64 {
	if loanAmount <= 0 || amortizationYears <= 0 {
		return 0
	}

	numPayments := float64(amortizationYears * 12)
	monthlyRate := annualRate / 12
	if monthlyRate == 0 {
		return loanAmount / numPayments
	}

	factor := math.Pow(1+monthlyRate, numPayments)
	return loanAmount * (monthlyRate * factor) / (factor - 1)
}

// AnnualDebtService is twelve level monthly payments.
func AnnualDebtService(loanAmount, annualRate float64, amortizationYears int) float64 {
	return MonthlyPayment(loanAmount, annualRate, amortizationYears) * 12
}

// RemainingBalance returns the outstanding principal after paymentsMade
// monthly payments. Payments beyond the amortization period are clamped and
// the result never goes below zero.
func RemainingBalance(loanAmount, annualRate float64, amortizationYears, paymentsMade int) float64 {
	if loanAmount <= 0 || amortizationYears <= 0 {
		return 0
	}

	totalPayments := amortizationYears * 12
	if paymentsMade > totalPayments {
		paymentsMade = totalPayments
	}
	if paymentsMade < 0 {
		paymentsMade = 0
	}

	monthlyRate := annualRate / 12
	payment := MonthlyPayment(loanAmount, annualRate, amortizationYears)

	var balance float64
	if monthlyRate == 0 {
		balance = loanAmount - payment*float64(paymentsMade)
	} else {
		factor := math.Pow(1+monthlyRate, float64(paymentsMade))
		balance = loanAmount*factor - payment*((factor-1)/monthlyRate)
	}

	return math.Max(balance, 0)
}
