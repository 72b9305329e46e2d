package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// ErrDoctorNotFound is returned when a doctor id or initials do not exist.
var ErrDoctorNotFound = errors.New("doctor not found")

// ListDoctors returns doctors ordered by name.
func ListDoctors(db *gorm.DB, activeOnly bool) ([]Doctor, error) {
	var doctors []Doctor
	query := db.Order("name")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// FindDoctor loads a doctor by primary key.
func FindDoctor(db *gorm.DB, id uint) (*Doctor, error) {
	var doctor Doctor
	if err := db.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor %d: %w", id, err)
	}
	return &doctor, nil
}

// FindDoctorByInitials loads a doctor by initials, case-insensitively.
func FindDoctorByInitials(db *gorm.DB, initials string) (*Doctor, error) {
	var doctor Doctor
	if err := db.Where("initials = ?", strings.ToUpper(initials)).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor %s: %w", initials, err)
	}
	return &doctor, nil
}

// UpsertPreference stores a doctor's submission, replacing any earlier one
// for the same month.
func UpsertPreference(db *gorm.DB, sub models.PreferenceSubmission) (*Preference, error) {
	desired := 0
	if sub.DesiredShifts != nil {
		desired = *sub.DesiredShifts
	}
	pref := Preference{
		DoctorID:      sub.DoctorID,
		Month:         sub.Month,
		Unavailable:   datatypes.NewJSONSlice(nonNil(sub.Unavailable)),
		Preferred:     datatypes.NewJSONSlice(nonNil(sub.Preferred)),
		DesiredShifts: desired,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"unavailable", "preferred", "desired_shifts", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return nil, fmt.Errorf("save preference: %w", err)
	}

	var stored Preference
	if err := db.Preload("Doctor").Where("doctor_id = ? AND month = ?", sub.DoctorID, sub.Month).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload preference: %w", err)
	}
	return &stored, nil
}

// PreferencesForMonth returns the stored preferences of month with doctors loaded.
func PreferencesForMonth(db *gorm.DB, month string) ([]Preference, error) {
	var prefs []Preference
	if err := db.Preload("Doctor").Where("month = ?", month).Order("doctor_id").Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("load preferences for %s: %w", month, err)
	}
	return prefs, nil
}

// ToModels converts stored rows into scheduler input.
func ToModels(prefs []Preference) []models.Preference {
	out := make([]models.Preference, 0, len(prefs))
	for _, p := range prefs {
		mp := models.Preference{
			DoctorID:      p.DoctorID,
			Month:         p.Month,
			Unavailable:   []string(p.Unavailable),
			Preferred:     []string(p.Preferred),
			DesiredShifts: p.DesiredShifts,
		}
		if p.Doctor != nil {
			mp.DoctorName = p.Doctor.Name
		}
		out = append(out, mp)
	}
	return out
}

// ScheduleForMonth returns the entries of month ordered by date.
func ScheduleForMonth(db *gorm.DB, month string) ([]ScheduleEntry, error) {
	var entries []ScheduleEntry
	if err := db.Preload("Doctor").Where("month = ?", month).Order("date").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load schedule for %s: %w", month, err)
	}
	return entries, nil
}

// EntriesToSchedule converts stored rows into a date -> doctor map.
func EntriesToSchedule(entries []ScheduleEntry) models.Schedule {
	schedule := make(models.Schedule, len(entries))
	for _, e := range entries {
		schedule[e.Date] = e.DoctorID
	}
	return schedule
}

// ReplaceSchedule swaps the stored schedule of month for schedule in a
// single transaction.
func ReplaceSchedule(db *gorm.DB, month string, schedule models.Schedule) error {
	dates := make([]string, 0, len(schedule))
	for date := range schedule {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month = ?", month).Delete(&ScheduleEntry{}).Error; err != nil {
			return fmt.Errorf("clear schedule for %s: %w", month, err)
		}
		if len(dates) == 0 {
			return nil
		}

		entries := make([]ScheduleEntry, 0, len(dates))
		for _, date := range dates {
			entries = append(entries, ScheduleEntry{
				DoctorID: schedule[date],
				Date:     date,
				Month:    date[:7],
			})
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("save schedule for %s: %w", month, err)
		}
		return nil
	})
}

// SetAssignment puts doctorID on date, or clears the date when doctorID is nil.
func SetAssignment(db *gorm.DB, date string, doctorID *uint) error {
	if doctorID == nil {
		if err := db.Where("date = ?", date).Delete(&ScheduleEntry{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", date, err)
		}
		return nil
	}

	entry := ScheduleEntry{
		DoctorID:   *doctorID,
		Date:       date,
		Month:      date[:7],
		ModifiedAt: time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"doctor_id", "modified_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("assign %s: %w", date, err)
	}
	return nil
}

// SeedDoctors inserts doctors whose initials are not stored yet and returns
// how many were created.
func SeedDoctors(db *gorm.DB, roster []models.DoctorInput) (int, error) {
	created := 0
	for _, d := range roster {
		doctor := Doctor{Name: d.Name, Initials: strings.ToUpper(d.Initials), Active: true}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "initials"}},
			DoNothing: true,
		}).Create(&doctor)
		if res.Error != nil {
			return created, fmt.Errorf("seed doctor %s: %w", d.Initials, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
