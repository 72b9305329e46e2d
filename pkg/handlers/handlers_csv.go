package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/metrics"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

// GenerateCSV handles CSV file uploads for scheduling.
//
// preferences_file columns: doctor_id, doctor_name, desired_shifts,
// unavailable, preferred. Date lists are separated by "|".
// assignments_file columns: date, doctor_id.
func (h *Handler) GenerateCSV(c *gin.Context) {
	month := c.PostForm("month")
	if month == "" {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "month is required"))
		return
	}
	if _, err := scheduler.ParseMonth(month); err != nil {
		h.respondError(c, invalidMonth(err))
		return
	}

	var pinned *int64
	if raw := c.PostForm("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "seed must be an integer"))
			return
		}
		pinned = &seed
	}

	prefsFile, _ := c.FormFile("preferences_file")
	assignmentsFile, _ := c.FormFile("assignments_file")
	if prefsFile == nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "preferences_file is required"))
		return
	}

	prefRows, err := readCSV(prefsFile, "doctor_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	prefs, err := parsePreferenceRows(month, prefRows)
	if err != nil {
		h.respondError(c, err)
		return
	}

	existing := models.Schedule{}
	if assignmentsFile != nil {
		rows, err := readCSV(assignmentsFile, "date", "doctor_id")
		if err != nil {
			h.respondError(c, err)
			return
		}
		if existing, err = parseAssignmentRows(rows); err != nil {
			h.respondError(c, err)
			return
		}
	}

	resp, err := h.generate(month, h.seedFor(pinned), prefs, existing)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Metrics.ObserveGeneration(metrics.OutcomeSuccess, len(resp.UnassignedDates))

	// Record usage
	h.RecordUsage(c, resp.Assignments+len(resp.UnassignedDates), len(prefs))

	out, err := scheduleCSV(month, resp.Schedule, prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"csv":              out,
		"seed":             resp.Seed,
		"unassigned_dates": resp.UnassignedDates,
		"fairness_score":   resp.FairnessScore,
		"validation":       resp.Validation,
	})
}

// readCSV loads an uploaded CSV into header-keyed rows, requiring the
// named columns.
func readCSV(fh *multipart.FileHeader, required ...string) ([]map[string]string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "Failed to open "+fh.Filename)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "Failed to read header of "+fh.Filename)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("%s is missing the %s column", fh.Filename, name))
		}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("%s: %v", fh.Filename, err))
		}
		row := make(map[string]string, len(cols))
		for name, i := range cols {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parsePreferenceRows(month string, rows []map[string]string) ([]models.Preference, error) {
	validate := models.NewValidator()
	prefs := make([]models.Preference, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		doctorID, err := strconv.ParseUint(row["doctor_id"], 10, 64)
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("preferences_file row %d: bad doctor_id", line))
		}
		desired := 0
		if raw := row["desired_shifts"]; raw != "" {
			if desired, err = strconv.Atoi(raw); err != nil {
				return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("preferences_file row %d: bad desired_shifts", line))
			}
		}

		p := models.Preference{
			DoctorID:      uint(doctorID),
			DoctorName:    row["doctor_name"],
			Month:         month,
			Unavailable:   splitDates(row["unavailable"]),
			Preferred:     splitDates(row["preferred"]),
			DesiredShifts: desired,
		}
		if err := validate.Struct(p); err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("preferences_file row %d: %s", line, models.DescribeValidation(err)))
		}
		prefs = append(prefs, p)
	}
	return prefs, nil
}

// parseAssignmentRows turns assignments_file rows into the schedule the
// generator starts from.
func parseAssignmentRows(rows []map[string]string) (models.Schedule, error) {
	validate := models.NewValidator()
	existing := make(models.Schedule, len(rows))
	for i, row := range rows {
		line := i + 2
		if err := validate.Var(row["date"], "required,isodate"); err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("assignments_file row %d: date must be YYYY-MM-DD", line))
		}
		doctorID, err := strconv.ParseUint(row["doctor_id"], 10, 64)
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("assignments_file row %d: bad doctor_id", line))
		}
		existing[row["date"]] = uint(doctorID)
	}
	return existing, nil
}

// scheduleCSV writes one row per date of month, leaving the doctor columns
// empty for unassigned nights.
func scheduleCSV(month string, schedule models.Schedule, prefs []models.Preference) (string, error) {
	dates, err := scheduler.MonthDates(month)
	if err != nil {
		return "", invalidMonth(err)
	}
	names := make(map[uint]string, len(prefs))
	for _, p := range prefs {
		names[p.DoctorID] = p.DoctorName
	}

	var out strings.Builder
	writer := csv.NewWriter(&out)
	_ = writer.Write([]string{"date", "doctor_id", "doctor_name"})
	for _, date := range dates {
		doctorID, ok := schedule[date]
		if !ok {
			_ = writer.Write([]string{date, "", ""})
			continue
		}
		_ = writer.Write([]string{date, strconv.FormatUint(uint64(doctorID), 10), names[doctorID]})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "Failed to write CSV")
	}
	return out.String(), nil
}

func splitDates(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, "|") {
		if d := strings.TrimSpace(part); d != "" {
			out = append(out, d)
		}
	}
	return out
}
