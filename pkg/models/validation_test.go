package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNewValidator_PreferenceSubmission(t *testing.T) {
	v := NewValidator()

	ok := PreferenceSubmission{
		DoctorID:      1,
		Month:         "2025-06",
		Unavailable:   []string{"2025-06-01"},
		Preferred:     []string{"2025-06-03"},
		DesiredShifts: intPtr(0),
	}
	assert.NoError(t, v.Struct(ok))

	badMonth := ok
	badMonth.Month = "2025-13"
	assert.Error(t, v.Struct(badMonth))

	badDate := ok
	badDate.Preferred = []string{"06/03/2025"}
	assert.Error(t, v.Struct(badDate))

	negative := ok
	negative.DesiredShifts = intPtr(-1)
	assert.Error(t, v.Struct(negative))

	missing := ok
	missing.DesiredShifts = nil
	err := v.Struct(missing)
	assert.Error(t, err)
	assert.Contains(t, DescribeValidation(err), "DesiredShifts")
}

func TestCheckDatesInMonth(t *testing.T) {
	assert.NoError(t, CheckDatesInMonth("2025-06", []string{"2025-06-01"}, nil))
	assert.Error(t, CheckDatesInMonth("2025-06", []string{"2025-06-30"}, []string{"2025-07-01"}))
}

func TestScheduleClone(t *testing.T) {
	orig := Schedule{"2025-06-01": 1}
	clone := orig.Clone()
	clone["2025-06-02"] = 2
	assert.Len(t, orig, 1)

	var empty Schedule
	assert.NotNil(t, empty.Clone())
}
