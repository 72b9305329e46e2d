package scheduler

import (
	"fmt"
	"sort"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// Validate checks schedule against the hard constraint that nobody works a
// night they marked unavailable. Violations are listed in date order.
func Validate(schedule models.Schedule, prefs []models.Preference) (bool, []string) {
	byDoctor := make(map[uint]models.Preference, len(prefs))
	for _, p := range prefs {
		byDoctor[p.DoctorID] = p
	}

	dates := make([]string, 0, len(schedule))
	for date := range schedule {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	violations := []string{}
	for _, date := range dates {
		doctorID := schedule[date]
		pref, ok := byDoctor[doctorID]
		if !ok {
			violations = append(violations, fmt.Sprintf("Doctor %d has no preferences submitted for this month (assigned on %s)", doctorID, date))
			continue
		}
		for _, d := range pref.Unavailable {
			if d == date {
				violations = append(violations, fmt.Sprintf("Doctor %s is assigned on %s but marked unavailable", doctorLabel(pref), date))
				break
			}
		}
	}

	return len(violations) == 0, violations
}

// ValidateResult wraps Validate for JSON responses
func ValidateResult(schedule models.Schedule, prefs []models.Preference) *models.ValidationResult {
	valid, violations := Validate(schedule, prefs)
	return &models.ValidationResult{Valid: valid, Violations: violations}
}

func doctorLabel(p models.Preference) string {
	if p.DoctorName != "" {
		return p.DoctorName
	}
	return fmt.Sprintf("%d", p.DoctorID)
}
