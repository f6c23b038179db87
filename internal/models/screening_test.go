package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioInputs_Defaults(t *testing.T) {
	var in ScenarioInputs
	payload := `{"purchase_price": 500000, "pad_count": 25, "current_rent": 375, "occupancy_rate": 0.88,
		"operating_expenses": 30000, "property_tax": 6000, "insurance": 4000}`
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	assert.Equal(t, 0.75, in.LoanLTV)
	assert.Equal(t, 0.07, in.InterestRate)
	assert.Equal(t, 30, in.TermYears)
	assert.NoError(t, in.Validate())
}

func TestScenarioInputs_Validate(t *testing.T) {
	valid := ScenarioInputs{PurchasePrice: 1, PadCount: 1, CurrentRent: 1, OccupancyRate: 1, LoanLTV: 0.5, InterestRate: 0.05, TermYears: 30}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(s *ScenarioInputs)
		field  string
	}{
		{"zero pads", func(s *ScenarioInputs) { s.PadCount = 0 }, "pad_count"},
		{"zero rent", func(s *ScenarioInputs) { s.CurrentRent = 0 }, "current_rent"},
		{"rate too high", func(s *ScenarioInputs) { s.InterestRate = 0.5 }, "interest_rate"},
		{"term too long", func(s *ScenarioInputs) { s.TermYears = 51 }, "term_years"},
		{"negative tax", func(s *ScenarioInputs) { s.PropertyTax = -1 }, "property_tax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.field, err.(*ValidationError).Field)
		})
	}
}

func TestBuyBoxCriteria_Defaults(t *testing.T) {
	var b BuyBoxCriteria
	require.NoError(t, json.Unmarshal([]byte(`{"min_dscr": 1.4}`), &b))

	expected := DefaultBuyBox()
	expected.MinDSCR = 1.4
	assert.Equal(t, expected, b)

	b.MaxPricePerPad = 0
	assert.Error(t, b.Validate())
}

func TestProFormaRequest_Defaults(t *testing.T) {
	var req ProFormaRequest
	payload := `{"scenario": {"purchase_price": 500000, "pad_count": 25, "current_rent": 375, "occupancy_rate": 0.9}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	assert.Equal(t, 5, req.ProjectionYears)
	assert.Equal(t, 0.03, req.RentGrowth)
	assert.Equal(t, 0.025, req.ExpenseGrowth)
	assert.Nil(t, req.ExitCapRate)
	assert.Equal(t, 30, req.Scenario.TermYears)
	assert.NoError(t, req.Validate())

	req.ProjectionYears = 21
	assert.Error(t, req.Validate())
}
