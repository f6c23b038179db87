package finance

import "math"

const (
	// IRRMaxIterations bounds the root finder across all of its phases.
	IRRMaxIterations = 100
	// IRRTolerance is the convergence threshold on the rate.
	IRRTolerance = 1e-6

	// Newton may spend at most this share of the budget; bracketing and
	// bisection get whatever it leaves.
	irrNewtonIterations = 50

	irrInitialGuess = 0.1
	irrLowerBound   = -0.9999
	irrUpperLimit   = 1e4
)

// NPV discounts cashFlows at rate, with cashFlows[0] at t=0.
func NPV(rate float64, cashFlows []float64) float64 {
	total := 0.0
	for t, cf := range cashFlows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

func npvDerivative(rate float64, cashFlows []float64) float64 {
	total := 0.0
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		total -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return total
}

// IRR solves NPV(rate) = 0 for the series.
//
// Newton-Raphson runs first from a 10% guess. If it leaves the domain
// (rate <= -1), hits a flat derivative or fails to settle within its share
// of the budget, a bisection over a bracketed sign change takes over. All
// phases together stay within IRRMaxIterations. The second return value is
// false when the series has no sign change or the budget runs out.
func IRR(cashFlows []float64) (float64, bool) {
	rate, ok, _ := solveIRR(cashFlows)
	return rate, ok
}

// solveIRR also reports the iterations spent
func solveIRR(cashFlows []float64) (float64, bool, int) {
	if !hasSignChange(cashFlows) {
		return 0, false, 0
	}

	rate, ok, used := newtonIRR(cashFlows, irrNewtonIterations)
	if ok {
		return rate, true, used
	}
	rate, ok, spent := bisectIRR(cashFlows, IRRMaxIterations-used)
	return rate, ok, used + spent
}

func newtonIRR(cashFlows []float64, limit int) (float64, bool, int) {
	rate := irrInitialGuess
	for i := 1; i <= limit; i++ {
		value := NPV(rate, cashFlows)
		slope := npvDerivative(rate, cashFlows)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return 0, false, i
		}

		next := rate - value/slope
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, false, i
		}
		if math.Abs(next-rate) < IRRTolerance {
			return next, true, i
		}
		rate = next
	}
	return 0, false, limit
}

// bisectIRR widens the upper bound until the sign changes, then halves the
// bracket. Each widening and each halving costs one iteration of budget.
func bisectIRR(cashFlows []float64, budget int) (float64, bool, int) {
	lo, hi := irrLowerBound, 1.0
	npvLo := NPV(lo, cashFlows)
	npvHi := NPV(hi, cashFlows)
	spent := 0

	for sameSign(npvLo, npvHi) {
		if hi >= irrUpperLimit || spent >= budget {
			return 0, false, spent
		}
		hi *= 2
		npvHi = NPV(hi, cashFlows)
		spent++
	}

	for spent < budget {
		spent++
		mid := (lo + hi) / 2
		npvMid := NPV(mid, cashFlows)
		if npvMid == 0 || (hi-lo)/2 < IRRTolerance {
			return mid, true, spent
		}
		if sameSign(npvMid, npvLo) {
			lo, npvLo = mid, npvMid
		} else {
			hi = mid
		}
	}
	return 0, false, spent
}

func hasSignChange(cashFlows []float64) bool {
	var positive, negative bool
	for _, cf := range cashFlows {
		if cf > 0 {
			positive = true
		} else if cf < 0 {
			negative = true
		}
	}
	return positive && negative
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
