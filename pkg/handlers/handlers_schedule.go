package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/metrics"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

// scheduleEntryView is the JSON shape of one stored night.
type scheduleEntryView struct {
	ID             uint   `json:"id"`
	DoctorID       uint   `json:"doctor_id"`
	DoctorName     string `json:"doctor_name"`
	DoctorInitials string `json:"doctor_initials"`
	Date           string `json:"date"`
	Month          string `json:"month"`
	ModifiedAt     string `json:"modified_at"`
}

func newScheduleEntryView(e database.ScheduleEntry) scheduleEntryView {
	v := scheduleEntryView{
		ID:         e.ID,
		DoctorID:   e.DoctorID,
		Date:       e.Date,
		Month:      e.Month,
		ModifiedAt: e.ModifiedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if e.Doctor != nil {
		v.DoctorName = e.Doctor.Name
		v.DoctorInitials = e.Doctor.Initials
	}
	return v
}

// generate runs the generator and builds the response body. Month errors
// come back as 400s.
func (h *Handler) generate(month string, seed int64, prefs []models.Preference, existing models.Schedule) (*models.ScheduleResponse, error) {
	gen := scheduler.NewGenerator(seed)
	schedule, err := gen.Generate(month, prefs, existing)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidMonth) {
			h.Metrics.ObserveGeneration(metrics.OutcomeRejected, 0)
			return nil, invalidMonth(err)
		}
		return nil, err
	}

	summary, err := scheduler.Summarize(month, schedule, prefs)
	if err != nil {
		return nil, err
	}
	h.Logger.Info("schedule generated",
		zap.String("month", month),
		zap.Int("doctors", len(prefs)),
		zap.Int64("seed", gen.Seed()),
		zap.Int("assignments", summary.Assignments),
		zap.Int("unassigned", len(summary.UnassignedDates)),
	)

	return &models.ScheduleResponse{
		Month:           month,
		Schedule:        schedule,
		Seed:            gen.Seed(),
		Assignments:     summary.Assignments,
		UnassignedDates: summary.UnassignedDates,
		ShiftTotals:     summary.ShiftTotals,
		FairnessScore:   summary.FairnessScore,
		Validation:      scheduler.ValidateResult(schedule, prefs),
	}, nil
}

func (h *Handler) seedFor(pinned *int64) int64 {
	if pinned != nil {
		return *pinned
	}
	return h.NewSeed()
}

// checkPreferenceMonths rejects preferences filed for a different month.
func checkPreferenceMonths(month string, prefs []models.Preference) error {
	for _, p := range prefs {
		if p.Month != "" && p.Month != month {
			return apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("preferences for doctor %d are for %s, not %s", p.DoctorID, p.Month, month))
		}
	}
	return nil
}

// GenerateJSON handles the stateless JSON scheduling request
func (h *Handler) GenerateJSON(c *gin.Context) {
	var input models.GenerateInput
	if !h.bind(c, &input) {
		return
	}
	if err := checkPreferenceMonths(input.Month, input.Preferences); err != nil {
		h.respondError(c, err)
		return
	}

	resp, err := h.generate(input.Month, h.seedFor(input.Seed), input.Preferences, input.ExistingSchedule)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Metrics.ObserveGeneration(metrics.OutcomeSuccess, len(resp.UnassignedDates))

	// Record usage
	h.RecordUsage(c, resp.Assignments+len(resp.UnassignedDates), len(input.Preferences))

	c.JSON(http.StatusOK, resp)
}

// GenerateMonth builds the stored month from the submitted preferences,
// keeping nights already on the schedule, and saves it when it passes
// validation.
func (h *Handler) GenerateMonth(c *gin.Context) {
	month, err := monthQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var pinned *int64
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "seed must be an integer"))
			return
		}
		pinned = &seed
	}

	rows, err := database.PreferencesForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(rows) == 0 {
		h.Metrics.ObserveGeneration(metrics.OutcomeRejected, 0)
		h.respondError(c, apperrors.Clone(apperrors.ErrNoPreferences, "No preferences found for this month"))
		return
	}
	prefs := database.ToModels(rows)

	entries, err := database.ScheduleForMonth(h.DB, month)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp, err := h.generate(month, h.seedFor(pinned), prefs, database.EntriesToSchedule(entries))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !resp.Validation.Valid {
		h.Metrics.ObserveGeneration(metrics.OutcomeInvalid, 0)
		h.Logger.Info("generated schedule rejected",
			zap.String("month", month),
			zap.Int64("seed", resp.Seed),
			zap.Int("violations", len(resp.Validation.Violations)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":   apperrors.ErrScheduleViolations.Code,
			"errors": resp.Validation.Violations,
		})
		return
	}

	if err := database.ReplaceSchedule(h.DB, month, resp.Schedule); err != nil {
		h.respondError(c, err)
		return
	}
	h.Metrics.ObserveGeneration(metrics.OutcomeSuccess, len(resp.UnassignedDates))
	h.Logger.Info("schedule saved", zap.String("month", month), zap.Int("entries", len(resp.Schedule)))

	c.JSON(http.StatusOK, gin.H{
		"message":          "Schedule generated successfully",
		"month":            resp.Month,
		"schedule":         resp.Schedule,
		"seed":             resp.Seed,
		"assignments":      resp.Assignments,
		"unassigned_dates": resp.UnassignedDates,
		"shift_totals":     resp.ShiftTotals,
		"fairness_score":   resp.FairnessScore,
	})
}

// GetSchedule returns the stored nights of a month in date order
func (h *Handler) GetSchedule(c *gin.Context) {
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

	out := make([]scheduleEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, newScheduleEntryView(e))
	}
	c.JSON(http.StatusOK, out)
}

// EditSchedule sets or clears the doctor of one night
func (h *Handler) EditSchedule(c *gin.Context) {
	var edit models.ScheduleEdit
	if !h.bind(c, &edit) {
		return
	}

	doctorID := edit.DoctorID
	if doctorID != nil && *doctorID == 0 {
		doctorID = nil
	}
	if doctorID != nil {
		if _, err := database.FindDoctor(h.DB, *doctorID); err != nil {
			h.respondError(c, notFound(err, "Doctor not found"))
			return
		}
	}

	if err := database.SetAssignment(h.DB, edit.Date, doctorID); err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("schedule edited", zap.String("date", edit.Date), zap.Bool("cleared", doctorID == nil))
	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated successfully"})
}
