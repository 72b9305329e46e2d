package scheduler

import (
	"math"

	"github.com/arnavshah/night-scheduler-api/pkg/models"
)

// Summary describes how a month's nights ended up distributed
type Summary struct {
	Assignments     int
	UnassignedDates []string
	ShiftTotals     map[uint]int
	FairnessScore   float64
}

// Summarize counts the nights of month held by each doctor with preferences
// and lists the dates nobody covers.
func Summarize(month string, schedule models.Schedule, prefs []models.Preference) (*Summary, error) {
	dates, err := MonthDates(month)
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]int, len(prefs))
	for _, p := range prefs {
		totals[p.DoctorID] = 0
	}

	s := &Summary{UnassignedDates: []string{}, ShiftTotals: totals}
	for _, date := range dates {
		doctorID, ok := schedule[date]
		if !ok {
			s.UnassignedDates = append(s.UnassignedDates, date)
			continue
		}
		s.Assignments++
		if _, tracked := totals[doctorID]; tracked {
			totals[doctorID]++
		}
	}

	s.FairnessScore = CalculateFairnessScore(totals)
	return s, nil
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// shifts are distributed. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(totals map[uint]int) float64 {
	if len(totals) == 0 {
		return 100.0
	}

	var sum float64
	for _, n := range totals {
		sum += float64(n)
	}

	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(totals))

	var varianceSum float64
	for _, n := range totals {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(totals)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
