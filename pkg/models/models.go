package models

// Schedule maps a YYYY-MM-DD date to the id of the doctor working that night.
// A date missing from the map is unassigned.
type Schedule map[string]uint

// Clone returns an independent copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for date, doctorID := range s {
		out[date] = doctorID
	}
	return out
}

// Preference is a doctor's submission for one month
type Preference struct {
	DoctorID      uint     `json:"doctor_id" yaml:"doctor_id" validate:"required"`
	DoctorName    string   `json:"doctor_name,omitempty" yaml:"doctor_name,omitempty"`
	Month         string   `json:"month,omitempty" yaml:"month,omitempty" validate:"omitempty,month"`
	Unavailable   []string `json:"unavailable" yaml:"unavailable" validate:"dive,isodate"`
	Preferred     []string `json:"preferred" yaml:"preferred" validate:"dive,isodate"`
	DesiredShifts int      `json:"desired_shifts" yaml:"desired_shifts" validate:"min=0"`
}

// GenerateInput is the body of the stateless generation endpoint
type GenerateInput struct {
	Month            string       `json:"month" validate:"required,month"`
	Preferences      []Preference `json:"preferences" validate:"dive"`
	ExistingSchedule Schedule     `json:"existing_schedule"`
	Seed             *int64       `json:"seed,omitempty"`
}

// ValidateInput is the body of the stateless validation endpoint
type ValidateInput struct {
	Schedule    Schedule     `json:"schedule"`
	Preferences []Preference `json:"preferences" validate:"dive"`
}

// ValidationResult reports hard-constraint violations of a schedule
type ValidationResult struct {
	Valid      bool     `json:"is_valid"`
	Violations []string `json:"violations"`
}

// ScheduleResponse is the data structure for the generation result
type ScheduleResponse struct {
	Month           string            `json:"month"`
	Schedule        Schedule          `json:"schedule"`
	Seed            int64             `json:"seed"`
	Assignments     int               `json:"assignments"`
	UnassignedDates []string          `json:"unassigned_dates"`
	ShiftTotals     map[uint]int      `json:"shift_totals"`
	FairnessScore   float64           `json:"fairness_score"`
	Validation      *ValidationResult `json:"validation,omitempty"`
}

// PreferenceSubmission is the body of POST /api/submit
type PreferenceSubmission struct {
	DoctorID      uint     `json:"doctor_id" validate:"required"`
	Month         string   `json:"month" validate:"required,month"`
	Unavailable   []string `json:"unavailable" validate:"dive,isodate"`
	Preferred     []string `json:"preferred" validate:"dive,isodate"`
	DesiredShifts *int     `json:"desired_shifts" validate:"required,min=0"`
}

// ScheduleEdit sets or clears the doctor for a single night
type ScheduleEdit struct {
	Date     string `json:"date" validate:"required,isodate"`
	DoctorID *uint  `json:"doctor_id"`
}

// DoctorInput is the body used to register a doctor
type DoctorInput struct {
	Name     string `json:"name" yaml:"name" validate:"required,max=100"`
	Initials string `json:"initials" yaml:"initials" validate:"required,max=4"`
}
