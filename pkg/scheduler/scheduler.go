package scheduler

import (
	"math/rand"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// Score terms. VetoScore is both the penalty for an ineligible doctor and the
// floor a candidate has to beat to be assigned.
const (
	VetoScore          = -1000.0
	PreferredBonus     = 50.0
	UnderTargetBonus   = 20.0
	OverTargetPenalty  = -30.0
	ConsecutivePenalty = -10.0
)

// Generator assigns doctors to the open nights of a month.
//
// Ties between equally scored doctors are broken by a random perturbation
// drawn from the generator's own source, so two generators built from the
// same seed produce the same schedule for the same input. A Generator is not
// safe for concurrent use.
type Generator struct {
	seed   int64
	rng    *rand.Rand
	jitter func() float64
}

// NewGenerator creates a generator whose tie-breaking is driven by seed
func NewGenerator(seed int64) *Generator {
	g := &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
	g.jitter = g.perturbation
	return g
}

// Seed returns the seed the generator was built with
func (g *Generator) Seed() int64 {
	return g.seed
}

// perturbation draws from the open interval (-1, 1).
func (g *Generator) perturbation() float64 {
	for {
		u := g.rng.Float64()
		if u != 0 {
			return 2*u - 1
		}
	}
}

// doctorPrefs is the lookup form of a models.Preference
type doctorPrefs struct {
	unavailable map[string]struct{}
	preferred   map[string]struct{}
	desired     int
}

func newDoctorPrefs(p models.Preference) *doctorPrefs {
	dp := &doctorPrefs{
		unavailable: make(map[string]struct{}, len(p.Unavailable)),
		preferred:   make(map[string]struct{}, len(p.Preferred)),
		desired:     p.DesiredShifts,
	}
	for _, d := range p.Unavailable {
		dp.unavailable[d] = struct{}{}
	}
	for _, d := range p.Preferred {
		dp.preferred[d] = struct{}{}
	}
	return dp
}

// indexPreferences keys preferences by doctor. Doctors keep the position of
// their first record; a later duplicate record replaces the earlier one.
func indexPreferences(prefs []models.Preference) (map[uint]*doctorPrefs, []uint) {
	byDoctor := make(map[uint]*doctorPrefs, len(prefs))
	order := make([]uint, 0, len(prefs))
	for _, p := range prefs {
		if _, seen := byDoctor[p.DoctorID]; !seen {
			order = append(order, p.DoctorID)
		}
		byDoctor[p.DoctorID] = newDoctorPrefs(p)
	}
	return byDoctor, order
}

// assignment holds the working state of one Generate call
type assignment struct {
	prefs    map[uint]*doctorPrefs
	order    []uint
	schedule models.Schedule
	shifts   map[uint]int
	jitter   func() float64
}

// Generate fills every unassigned date of month with the best scoring doctor.
//
// existing is copied and never modified; its entries are kept as they are,
// even when they break a doctor's unavailability. Every existing entry
// counts toward its doctor's running total, whatever month it falls in.
// Dates where no doctor beats VetoScore are left out of the result.
func (g *Generator) Generate(month string, prefs []models.Preference, existing models.Schedule) (models.Schedule, error) {
	dates, err := MonthDates(month)
	if err != nil {
		return nil, err
	}

	byDoctor, order := indexPreferences(prefs)
	a := &assignment{
		prefs:    byDoctor,
		order:    order,
		schedule: existing.Clone(),
		shifts:   make(map[uint]int, len(order)),
		jitter:   g.jitter,
	}

	// Prefill running totals from the existing schedule
	for _, doctorID := range a.schedule {
		if _, ok := a.prefs[doctorID]; ok {
			a.shifts[doctorID]++
		}
	}

	for _, date := range dates {
		if _, taken := a.schedule[date]; taken {
			continue
		}
		a.assignDate(date)
	}

	return a.schedule, nil
}

// assignDate scores every doctor for date and records the winner, if any.
func (a *assignment) assignDate(date string) {
	var best uint
	found := false
	bestScore := -999999.0

	for _, doctorID := range a.order {
		score := a.score(doctorID, date)
		if score > bestScore {
			bestScore = score
			best = doctorID
			found = true
		}
	}

	if found && bestScore > VetoScore {
		a.schedule[date] = best
		a.shifts[best]++
	}
}

// score rates doctorID for date against the current working schedule.
func (a *assignment) score(doctorID uint, date string) float64 {
	pref, ok := a.prefs[doctorID]
	if !ok {
		return VetoScore
	}
	if _, blocked := pref.unavailable[date]; blocked {
		return VetoScore
	}

	score := 0.0
	if _, wanted := pref.preferred[date]; wanted {
		score += PreferredBonus
	}

	current := a.shifts[doctorID]
	switch {
	case current < pref.desired:
		score += UnderTargetBonus
	case current > pref.desired:
		score += OverTargetPenalty
	}

	if a.worksNextTo(doctorID, date) {
		score += ConsecutivePenalty
	}

	return score + a.jitter()
}

// worksNextTo reports whether doctorID holds the night before or after date.
func (a *assignment) worksNextTo(doctorID uint, date string) bool {
	prev, next, err := AdjacentDates(date)
	if err != nil {
		return false
	}
	if id, ok := a.schedule[prev]; ok && id == doctorID {
		return true
	}
	if id, ok := a.schedule[next]; ok && id == doctorID {
		return true
	}
	return false
}
