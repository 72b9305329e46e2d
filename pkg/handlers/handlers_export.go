package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/export"
)

// ExportICS serves one doctor's nights of a month as a calendar file
func (h *Handler) ExportICS(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	initials := c.Query("doctor")
	if initials == "" {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "Month and doctor parameters are required"))
		return
	}

	doctor, err := database.FindDoctorByInitials(h.DB, initials)
	if err != nil {
		h.respondError(c, notFound(err, "Doctor not found"))
		return
	}

	entries, err := database.ScheduleForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var nights []string
	for _, e := range entries {
		if e.DoctorID == doctor.ID {
			nights = append(nights, e.Date)
		}
	}

	body, err := export.ICS(h.Calendar, doctor.Initials, doctor.Name, nights)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("night_schedule_%s_%s.ics", doctor.Initials, month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// ExportPDF serves the printable calendar of a month
func (h *Handler) ExportPDF(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entries, err := database.ScheduleForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	prefs, err := database.PreferencesForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}

	cal := export.MonthCalendar{
		Title:       h.Calendar.Name,
		Month:       month,
		Assigned:    make(map[string]string, len(entries)),
		Preferred:   map[string][]string{},
		Unavailable: map[string][]string{},
	}
	for _, e := range entries {
		if e.Doctor != nil {
			cal.Assigned[e.Date] = e.Doctor.Initials
		}
	}
	for _, p := range prefs {
		if p.Doctor == nil {
			continue
		}
		for _, d := range p.Preferred {
			cal.Preferred[d] = append(cal.Preferred[d], p.Doctor.Initials)
		}
		for _, d := range p.Unavailable {
			cal.Unavailable[d] = append(cal.Unavailable[d], p.Doctor.Initials)
		}
	}

	body, err := export.CalendarPDF(cal)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("night_schedule_%s.pdf", month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", body)
}
