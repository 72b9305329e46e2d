package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

// ValidateSchedule checks a caller supplied schedule against the
// unavailability of the supplied preferences.
func (h *Handler) ValidateSchedule(c *gin.Context) {
	var input models.ValidateInput
	if !h.bind(c, &input) {
		return
	}

	result := scheduler.ValidateResult(input.Schedule, input.Preferences)
	c.JSON(http.StatusOK, gin.H{
		"is_valid":   result.Valid,
		"violations": result.Violations,
		"stats": gin.H{
			"assigned_dates": len(input.Schedule),
			"doctor_count":   len(input.Preferences),
		},
	})
}
