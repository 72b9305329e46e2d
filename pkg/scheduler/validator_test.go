package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

func TestValidate(t *testing.T) {
	prefs := []models.Preference{
		{DoctorID: 1, DoctorName: "Dr. Adams", Unavailable: []string{"2025-06-02"}},
		{DoctorID: 2, Unavailable: []string{"2025-06-04"}},
	}

	t.Run("clean schedule", func(t *testing.T) {
		valid, violations := Validate(models.Schedule{"2025-06-01": 1, "2025-06-02": 2}, prefs)
		assert.True(t, valid)
		assert.Empty(t, violations)
	})

	t.Run("empty schedule", func(t *testing.T) {
		valid, violations := Validate(models.Schedule{}, nil)
		assert.True(t, valid)
		assert.NotNil(t, violations)
	})

	t.Run("reports every violation in date order", func(t *testing.T) {
		schedule := models.Schedule{
			"2025-06-04": 2,
			"2025-06-02": 1,
			"2025-06-03": 7,
		}
		valid, violations := Validate(schedule, prefs)
		assert.False(t, valid)
		assert.Equal(t, []string{
			"Doctor Dr. Adams is assigned on 2025-06-02 but marked unavailable",
			"Doctor 7 has no preferences submitted for this month (assigned on 2025-06-03)",
			"Doctor 2 is assigned on 2025-06-04 but marked unavailable",
		}, violations)
	})
}

func TestValidateResult(t *testing.T) {
	res := ValidateResult(models.Schedule{"2025-06-01": 3}, nil)
	assert.False(t, res.Valid)
	assert.Len(t, res.Violations, 1)
}
