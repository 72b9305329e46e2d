package main

import (
	"fmt"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// loadPreferences reads a YAML list of preferences and validates every entry.
func loadPreferences(path string) ([]models.Preference, error) {
	var prefs []models.Preference
	if err := decodeFile(path, &prefs); err != nil {
		return nil, err
	}

	validate := models.NewValidator()
	for i, p := range prefs {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %s", path, i+1, models.DescribeValidation(err))
		}
	}
	return prefs, nil
}

// loadSchedule reads a YAML mapping of date to doctor id.
func loadSchedule(path string) (models.Schedule, error) {
	schedule := models.Schedule{}
	if err := decodeFile(path, &schedule); err != nil {
		return nil, err
	}

	validate := models.NewValidator()
	for date := range schedule {
		if err := validate.Var(date, "isodate"); err != nil {
			return nil, fmt.Errorf("%s: %q is not a YYYY-MM-DD date", path, date)
		}
	}
	return schedule, nil
}

// loadRoster reads a YAML list of doctors.
func loadRoster(path string) ([]models.DoctorInput, error) {
	var roster []models.DoctorInput
	if err := decodeFile(path, &roster); err != nil {
		return nil, err
	}

	validate := models.NewValidator()
	for i, d := range roster {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %s", path, i+1, models.DescribeValidation(err))
		}
	}
	return roster, nil
}
