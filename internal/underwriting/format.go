package underwriting

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// formatPercent renders a ratio as a fixed-point percentage, 0.0737 -> "7.4%"
func formatPercent(ratio float64, places int32) string {
	return decimal.NewFromFloat(ratio).Mul(hundred).StringFixed(places) + "%"
}

// formatRatio renders a plain ratio such as DSCR with two decimals
func formatRatio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// formatCurrency renders whole dollars with thousands separators
func formatCurrency(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(0)
	digits := rounded.Abs().String()

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
