package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
)

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, dateCount, doctorCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_dates":   gorm.Expr("total_dates + ?", dateCount),
			"total_doctors": gorm.Expr("total_doctors + ?", doctorCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalDates:   dateCount,
		TotalDoctors: doctorCount,
	}).Error
	if err != nil {
		h.Logger.Warn("could not record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		h.respondError(c, apperrors.Clone(apperrors.ErrInternal, "API Key context missing"))
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "Could not fetch usage details"))
		return
	}

	// Calculate totals
	var totalRequests, totalDates, totalDoctors int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalDates += int64(u.TotalDates)
		totalDoctors += int64(u.TotalDoctors)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests": totalRequests,
			"dates":    totalDates,
			"doctors":  totalDoctors,
		},
	})
}
