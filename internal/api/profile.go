package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealdesk/server/config"
)

// GetAssumptions returns the active assumptions profile
func (h *Handler) GetAssumptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.profiles.Get())
}

// UpdateAssumptions replaces the active profile. Top-level keys missing from
// the body keep their current values; a partial assumptions or buy_box block
// is filled from the documented defaults.
func (h *Handler) UpdateAssumptions(c *gin.Context) {
	profile := h.profiles.Get()
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := profile.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if limit := h.service.MaxProjectionYears(); profile.Assumptions.ExitYear > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assumptions.exit_year exceeds the projection limit of " + strconv.Itoa(limit)})
		return
	}

	// the file and the engine baseline change together or not at all
	err := h.profiles.UpdateWith(profile, func(p config.AssumptionProfile) error {
		return h.service.SetBaseline(p.Assumptions)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to update assumptions profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assumptions profile"})
		return
	}

	h.logger.WithField("profile", profile.Name).Info("Assumptions profile updated")
	c.JSON(http.StatusOK, profile)
}
