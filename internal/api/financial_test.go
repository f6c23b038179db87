package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/server/internal/models"
)

func TestBaseScenario(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/financial/scenario/base", sampleScenario())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s models.ScreeningScenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.InDelta(t, 131_000.0, s.NOI, 1e-6)
	assert.InDelta(t, 2.1878, s.Metrics.DSCR, 1e-4)
}

func TestBaseScenario_DefaultsFinancing(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{"purchase_price":1000000,"pad_count":50,"current_rent":400,"occupancy_rate":0.9,
		"operating_expenses":60000,"property_tax":15000,"insurance":10000}`
	w := ts.do(t, http.MethodPost, "/api/financial/scenario/base", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s models.ScreeningScenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 750_000.0, s.Financing.LoanAmount)
	assert.Equal(t, 30, s.Inputs.TermYears)
}

func TestBaseScenario_Invalid(t *testing.T) {
	ts := newTestServer(t, nil)

	in := sampleScenario()
	in.OccupancyRate = 1.5
	w := ts.do(t, http.MethodPost, "/api/financial/scenario/base", in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "occupancy_rate")
}

func TestStressScenarios(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/financial/scenario/stress", sampleScenario())
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Base      models.ScreeningScenario   `json:"base"`
		Scenarios []models.ScreeningScenario `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Scenarios, 11)
	assert.Equal(t, "Rate +200bps", body.Scenarios[10].Name)
	assert.InDelta(t, 131_000.0, body.Base.NOI, 1e-6)
}

func TestEvaluateBuyBox(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   BuyBoxRequest
		passes bool
	}{
		{"profile criteria", BuyBoxRequest{Scenario: sampleScenario()}, false},
		{"request criteria", BuyBoxRequest{Scenario: sampleScenario(), Criteria: &models.BuyBoxCriteria{
			MinDSCR: 1.25, MinDebtYield: 0.10, MinCapRate: 0.08, MaxPricePerPad: 25_000,
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/financial/buy-box/evaluate", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var body struct {
				Evaluation models.BuyBoxEvaluation `json:"evaluation"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.passes, body.Evaluation.PassesBuyBox)
			assert.Equal(t, 4, body.Evaluation.Summary.TotalChecks)
		})
	}
}

func TestEvaluateBuyBox_FollowsProfile(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPut, "/api/underwriting/assumptions", `{"buy_box":{"max_price_per_pad":25000}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/financial/buy-box/evaluate", BuyBoxRequest{Scenario: sampleScenario()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"passes_buy_box":true`)
}

func TestEvaluateBuyBox_InvalidCriteria(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/financial/buy-box/evaluate",
		`{"scenario":{"purchase_price":1000000,"pad_count":50,"current_rent":400,"occupancy_rate":0.9},"criteria":{"min_dscr":-1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProForma(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/financial/pro-forma", map[string]interface{}{
		"scenario": sampleScenario(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pf models.ProForma
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pf))
	assert.Len(t, pf.Years, 5)
	require.NotNil(t, pf.IRR)
	assert.InDelta(t, 0.40597, *pf.IRR, 1e-4)
}

func TestProForma_Invalid(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/financial/pro-forma", map[string]interface{}{
		"scenario":         sampleScenario(),
		"projection_years": 40,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "projection_years")
}
