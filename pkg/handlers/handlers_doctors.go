package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// ListDoctors returns doctors ordered by name; ?active=false includes
// deactivated ones.
func (h *Handler) ListDoctors(c *gin.Context) {
	activeOnly := strings.ToLower(c.DefaultQuery("active", "true")) == "true"
	doctors, err := database.ListDoctors(h.DB, activeOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// CreateDoctor registers a doctor with unique initials
func (h *Handler) CreateDoctor(c *gin.Context) {
	var input models.DoctorInput
	if !h.bind(c, &input) {
		return
	}

	initials := strings.ToUpper(strings.TrimSpace(input.Initials))
	if _, err := database.FindDoctorByInitials(h.DB, initials); err == nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrConflict, "Doctor with these initials already exists"))
		return
	}

	doctor := database.Doctor{Name: strings.TrimSpace(input.Name), Initials: initials, Active: true}
	if err := h.DB.Create(&doctor).Error; err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("doctor created", zap.Uint("doctor_id", doctor.ID), zap.String("initials", initials))
	c.JSON(http.StatusCreated, doctor)
}

// DeactivateDoctor hides a doctor from the active roster. History is kept.
func (h *Handler) DeactivateDoctor(c *gin.Context) {
	h.setActive(c, func(bool) bool { return false }, "Doctor deactivated successfully")
}

// ActivateDoctor puts a doctor back on the active roster
func (h *Handler) ActivateDoctor(c *gin.Context) {
	h.setActive(c, func(bool) bool { return true }, "")
}

// ToggleDoctor flips a doctor's active flag
func (h *Handler) ToggleDoctor(c *gin.Context) {
	h.setActive(c, func(active bool) bool { return !active }, "")
}

// setActive applies next to the doctor's flag and answers with message, or
// with the updated doctor when message is empty.
func (h *Handler) setActive(c *gin.Context, next func(bool) bool, message string) {
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	doctor, err := database.FindDoctor(h.DB, id)
	if err != nil {
		h.respondError(c, notFound(err, "Doctor not found"))
		return
	}

	doctor.Active = next(doctor.Active)
	if err := h.DB.Model(doctor).Update("active", doctor.Active).Error; err != nil {
		h.respondError(c, err)
		return
	}

	if message != "" {
		c.JSON(http.StatusOK, gin.H{"message": message})
		return
	}
	c.JSON(http.StatusOK, doctor)
}
