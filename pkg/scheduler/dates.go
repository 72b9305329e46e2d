package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// MonthLayout is the format of a month token, e.g. 2025-06
	MonthLayout = "2006-01"
	// DateLayout is the format of a schedule key, e.g. 2025-06-15
	DateLayout = "2006-01-02"
)

// ErrInvalidMonth is returned when a month token is not YYYY-MM with a month of 1-12.
var ErrInvalidMonth = errors.New("invalid month")

// ParseMonth returns midnight UTC on the first day of month.
func ParseMonth(month string) (time.Time, error) {
	first, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM", ErrInvalidMonth, month)
	}
	return first, nil
}

// MonthDates returns every calendar date of month in ascending order.
func MonthDates(month string) ([]string, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	last := first.AddDate(0, 1, -1)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Until:   last,
	})
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", month, err)
	}

	occurrences := rule.All()
	dates := make([]string, 0, len(occurrences))
	for _, day := range occurrences {
		dates = append(dates, day.Format(DateLayout))
	}
	return dates, nil
}

// AdjacentDates returns the calendar days immediately before and after date.
// The lookup is plain day arithmetic and may cross month boundaries.
func AdjacentDates(date string) (prev, next string, err error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return day.AddDate(0, 0, -1).Format(DateLayout), day.AddDate(0, 0, 1).Format(DateLayout), nil
}
