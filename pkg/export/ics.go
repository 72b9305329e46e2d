package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// icsNamespace scopes the deterministic event UIDs.
var icsNamespace = uuid.MustParse("0f7c2a4e-5c1b-4b8e-9a43-3c2d1f6e8b90")

// CalendarOptions describes the calendar a doctor subscribes to.
type CalendarOptions struct {
	Name     string
	Timezone string
	Location string
}

// ICS renders the nights (YYYY-MM-DD) of one doctor as an iCalendar
// document with one all-day event per night. Event UIDs are stable per
// doctor and date. Lines are CRLF terminated and folded at 75 octets.
func ICS(opts CalendarOptions, doctorInitials, doctorName string, nights []string) (string, error) {
	cal := ics.NewCalendarFor("Night Shift Scheduler")
	cal.SetProductId("-//Night Shift Scheduler//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("%s - %s", opts.Name, doctorName))
	if opts.Timezone != "" {
		cal.SetXWRTimezone(opts.Timezone)
	}

	stamp := time.Now()
	for _, night := range nights {
		day, err := time.Parse("2006-01-02", night)
		if err != nil {
			return "", fmt.Errorf("parse night %q: %w", night, err)
		}
		uid := uuid.NewSHA1(icsNamespace, []byte(doctorInitials+"/"+night))

		event := cal.AddEvent(fmt.Sprintf("%s@night-scheduler", uid))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(opts.Name)
		if opts.Location != "" {
			event.SetLocation(opts.Location)
		}
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	var b strings.Builder
	if err := cal.SerializeTo(&b, ics.WithNewLineWindows); err != nil {
		return "", fmt.Errorf("serialize calendar: %w", err)
	}
	return b.String(), nil
}
