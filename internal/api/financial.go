package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/server/internal/models"
	"dealdesk/server/internal/screening"
)

type BuyBoxRequest struct {
	Scenario models.ScenarioInputs  `json:"scenario"`
	Criteria *models.BuyBoxCriteria `json:"criteria,omitempty"`
}

// BaseScenario screens a deal from headline numbers
func (h *Handler) BaseScenario(c *gin.Context) {
	in, ok := bindScenario(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, screening.BaseScenario(in))
}

// StressScenarios runs the quick-screen stress grid
func (h *Handler) StressScenarios(c *gin.Context) {
	in, ok := bindScenario(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"base":      screening.BaseScenario(in),
		"scenarios": screening.StressGrid(in),
	})
}

// EvaluateBuyBox checks a screened deal against the buy-box. Without
// criteria in the body the active profile's buy-box applies.
func (h *Handler) EvaluateBuyBox(c *gin.Context) {
	var req BuyBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Scenario.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criteria := h.profiles.Get().BuyBox
	if req.Criteria != nil {
		if err := req.Criteria.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		criteria = *req.Criteria
	}

	scenario := screening.BaseScenario(req.Scenario)
	c.JSON(http.StatusOK, gin.H{
		"scenario":   scenario,
		"evaluation": screening.EvaluateBuyBox(scenario, criteria),
	})
}

// ProForma projects the screened deal forward and solves its IRR
func (h *Handler) ProForma(c *gin.Context) {
	var req models.ProFormaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, screening.ProForma(req))
}

func bindScenario(c *gin.Context) (models.ScenarioInputs, bool) {
	var in models.ScenarioInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, false
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, false
	}
	return in, true
}
