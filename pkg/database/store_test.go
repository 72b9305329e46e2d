package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenInMemory("store_" + t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seed(t *testing.T, db *gorm.DB) (Doctor, Doctor) {
	t.Helper()
	_, err := SeedDoctors(db, []models.DoctorInput{
		{Name: "Zoe Young", Initials: "zy"},
		{Name: "Adam Brook", Initials: "AB"},
	})
	require.NoError(t, err)

	zoe, err := FindDoctorByInitials(db, "ZY")
	require.NoError(t, err)
	adam, err := FindDoctorByInitials(db, "ab")
	require.NoError(t, err)
	return *zoe, *adam
}

func intPtr(v int) *int { return &v }

func TestSeedDoctorsSkipsExistingInitials(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	created, err := SeedDoctors(db, []models.DoctorInput{
		{Name: "Adam Brook", Initials: "AB"},
		{Name: "Cara Diaz", Initials: "CD"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	doctors, err := ListDoctors(db, true)
	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Adam Brook", doctors[0].Name)
}

func TestFindDoctorNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := FindDoctor(db, 404)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpsertPreferenceReplacesEarlierSubmission(t *testing.T) {
	db := newTestDB(t)
	zoe, _ := seed(t, db)

	_, err := UpsertPreference(db, models.PreferenceSubmission{
		DoctorID:      zoe.ID,
		Month:         "2025-06",
		Unavailable:   []string{"2025-06-01"},
		DesiredShifts: intPtr(4),
	})
	require.NoError(t, err)

	pref, err := UpsertPreference(db, models.PreferenceSubmission{
		DoctorID:      zoe.ID,
		Month:         "2025-06",
		Preferred:     []string{"2025-06-09"},
		DesiredShifts: intPtr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, pref.DesiredShifts)
	assert.Empty(t, pref.Unavailable)
	require.NotNil(t, pref.Doctor)
	assert.Equal(t, "Zoe Young", pref.Doctor.Name)

	prefs, err := PreferencesForMonth(db, "2025-06")
	require.NoError(t, err)
	require.Len(t, prefs, 1)

	converted := ToModels(prefs)
	assert.Equal(t, models.Preference{
		DoctorID:      zoe.ID,
		DoctorName:    "Zoe Young",
		Month:         "2025-06",
		Unavailable:   []string{},
		Preferred:     []string{"2025-06-09"},
		DesiredShifts: 6,
	}, converted[0])
}

func TestReplaceScheduleAndSetAssignment(t *testing.T) {
	db := newTestDB(t)
	zoe, adam := seed(t, db)

	require.NoError(t, ReplaceSchedule(db, "2025-06", models.Schedule{
		"2025-06-02": zoe.ID,
		"2025-06-01": adam.ID,
	}))
	require.NoError(t, SetAssignment(db, "2025-07-01", &zoe.ID))

	require.NoError(t, ReplaceSchedule(db, "2025-06", models.Schedule{
		"2025-06-01": zoe.ID,
		"2025-06-03": adam.ID,
	}))

	entries, err := ScheduleForMonth(db, "2025-06")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-06-01", entries[0].Date)
	require.NotNil(t, entries[0].Doctor)
	assert.Equal(t, "ZY", entries[0].Doctor.Initials)
	assert.Equal(t, models.Schedule{"2025-06-01": zoe.ID, "2025-06-03": adam.ID}, EntriesToSchedule(entries))

	july, err := ScheduleForMonth(db, "2025-07")
	require.NoError(t, err)
	assert.Len(t, july, 1)

	require.NoError(t, SetAssignment(db, "2025-06-01", &adam.ID))
	require.NoError(t, SetAssignment(db, "2025-06-03", nil))

	entries, err = ScheduleForMonth(db, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, models.Schedule{"2025-06-01": adam.ID}, EntriesToSchedule(entries))
}
