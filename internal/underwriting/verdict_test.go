package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dealdesk/server/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		dscr       float64
		coc        float64
		irr        *float64
		requireIRR bool
		want       models.Verdict
	}{
		{"green without irr", 1.30, 0.09, nil, false, models.VerdictGreen},
		{"green with irr", 1.25, 0.08, floatPtr(0.15), true, models.VerdictGreen},
		{"yellow on dscr", 1.20, 0.09, nil, false, models.VerdictYellow},
		{"yellow on cash on cash", 1.40, 0.07, nil, false, models.VerdictYellow},
		{"yellow on irr", 1.40, 0.10, floatPtr(0.13), true, models.VerdictYellow},
		{"red on dscr", 1.10, 0.10, nil, false, models.VerdictRed},
		{"red on cash on cash", 1.40, 0.05, nil, false, models.VerdictRed},
		{"red on irr", 1.40, 0.10, floatPtr(0.11), true, models.VerdictRed},
		{"missing irr required", 1.40, 0.10, nil, true, models.VerdictRed},
		{"irr ignored when not required but present", 1.40, 0.10, floatPtr(0.05), false, models.VerdictRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := models.MetricSummary{DSCR: tt.dscr, CashOnCash: tt.coc}
			assert.Equal(t, tt.want, Classify(metrics, tt.irr, tt.requireIRR))
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	grid := []float64{0.5, 1.0, 1.15, 1.2, 1.25, 1.5}
	cocs := []float64{0, 0.05, 0.06, 0.07, 0.08, 0.12}

	for i := 1; i < len(grid); i++ {
		for _, coc := range cocs {
			lower := Classify(models.MetricSummary{DSCR: grid[i-1], CashOnCash: coc}, nil, false)
			higher := Classify(models.MetricSummary{DSCR: grid[i], CashOnCash: coc}, nil, false)
			assert.GreaterOrEqual(t, int(higher), int(lower), "dscr %v -> %v at coc %v", grid[i-1], grid[i], coc)
		}
	}
	for i := 1; i < len(cocs); i++ {
		for _, dscr := range grid {
			lower := Classify(models.MetricSummary{DSCR: dscr, CashOnCash: cocs[i-1]}, nil, false)
			higher := Classify(models.MetricSummary{DSCR: dscr, CashOnCash: cocs[i]}, nil, false)
			assert.GreaterOrEqual(t, int(higher), int(lower))
		}
	}

	irrs := []*float64{nil, floatPtr(-0.2), floatPtr(0.05), floatPtr(0.12), floatPtr(0.14), floatPtr(0.15), floatPtr(0.3)}
	for i := 1; i < len(irrs); i++ {
		for _, dscr := range grid {
			for _, coc := range cocs {
				metrics := models.MetricSummary{DSCR: dscr, CashOnCash: coc}
				lower := Classify(metrics, irrs[i-1], true)
				higher := Classify(metrics, irrs[i], true)
				assert.GreaterOrEqual(t, int(higher), int(lower), "irr step %d at dscr %v coc %v", i, dscr, coc)
			}
		}
	}
}
