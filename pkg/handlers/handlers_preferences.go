package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

type preferenceView struct {
	ID            uint     `json:"id"`
	DoctorID      uint     `json:"doctor_id"`
	DoctorName    string   `json:"doctor_name"`
	Month         string   `json:"month"`
	Unavailable   []string `json:"unavailable"`
	Preferred     []string `json:"preferred"`
	DesiredShifts int      `json:"desired_shifts"`
}

func newPreferenceView(p database.Preference) preferenceView {
	v := preferenceView{
		ID:            p.ID,
		DoctorID:      p.DoctorID,
		Month:         p.Month,
		Unavailable:   []string(p.Unavailable),
		Preferred:     []string(p.Preferred),
		DesiredShifts: p.DesiredShifts,
	}
	if p.Doctor != nil {
		v.DoctorName = p.Doctor.Name
	}
	return v
}

// SubmitPreferences stores a doctor's availability for a month. A later
// submission for the same month replaces the earlier one.
func (h *Handler) SubmitPreferences(c *gin.Context) {
	var sub models.PreferenceSubmission
	if !h.bind(c, &sub) {
		return
	}
	if err := models.CheckDatesInMonth(sub.Month, sub.Unavailable, sub.Preferred); err != nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
		return
	}

	if _, err := database.FindDoctor(h.DB, sub.DoctorID); err != nil {
		h.respondError(c, notFound(err, "Doctor not found"))
		return
	}

	pref, err := database.UpsertPreference(h.DB, sub)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("preferences submitted",
		zap.Uint("doctor_id", sub.DoctorID),
		zap.String("month", sub.Month),
		zap.Int("unavailable", len(sub.Unavailable)),
		zap.Int("preferred", len(sub.Preferred)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Preferences submitted successfully",
		"preference": newPreferenceView(*pref),
	})
}

// ListPreferences returns every submission for a month
func (h *Handler) ListPreferences(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	prefs, err := database.PreferencesForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]preferenceView, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, newPreferenceView(p))
	}
	c.JSON(http.StatusOK, out)
}
