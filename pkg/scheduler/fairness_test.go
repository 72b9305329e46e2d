package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

func TestCalculateFairnessScore(t *testing.T) {
	assert.Equal(t, 100.0, CalculateFairnessScore(nil))
	assert.Equal(t, 100.0, CalculateFairnessScore(map[uint]int{1: 0, 2: 0}))
	assert.Equal(t, 100.0, CalculateFairnessScore(map[uint]int{1: 5, 2: 5}))
	assert.InDelta(t, 50.0, CalculateFairnessScore(map[uint]int{1: 3, 2: 9}), 0.001)
	assert.Equal(t, 0.0, CalculateFairnessScore(map[uint]int{1: 0, 2: 0, 3: 0, 4: 12}))
}

func TestSummarize(t *testing.T) {
	schedule := models.Schedule{
		"2025-02-01": 1,
		"2025-02-02": 2,
		"2025-02-03": 1,
		"2025-01-31": 1,
		"2025-02-04": 9,
	}
	prefs := []models.Preference{{DoctorID: 1}, {DoctorID: 2}, {DoctorID: 3}}

	s, err := Summarize("2025-02", schedule, prefs)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Assignments)
	assert.Len(t, s.UnassignedDates, 24)
	assert.Equal(t, "2025-02-05", s.UnassignedDates[0])
	assert.Equal(t, map[uint]int{1: 2, 2: 1, 3: 0}, s.ShiftTotals)
}
