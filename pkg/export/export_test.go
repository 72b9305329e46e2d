package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

func TestICS(t *testing.T) {
	opts := CalendarOptions{Name: "MICU Night Shift", Timezone: "America/Chicago", Location: "Main Hospital, MICU"}

	out, err := ICS(opts, "AB", "Adam Brook", []string{"2025-06-30", "2025-06-02"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "X-WR-CALNAME:MICU Night Shift - Adam Brook\r\n")
	assert.Contains(t, out, "X-WR-TIMEZONE:America/Chicago\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250630\r\nDTEND;VALUE=DATE:20250701\r\n")
	assert.Contains(t, out, "LOCATION:Main Hospital\\, MICU\r\n")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	again, err := ICS(opts, "AB", "Adam Brook", []string{"2025-06-30"})
	require.NoError(t, err)
	uid := between(out, "UID:", "\r\n")
	assert.Equal(t, uid, between(again, "UID:", "\r\n"))
}

func TestICS_FoldsLongLines(t *testing.T) {
	opts := CalendarOptions{
		Name:     "Medical Intensive Care Unit Night Shift Rotation",
		Location: "University Hospital, Medical Intensive Care Unit, Fourth Floor East Wing",
	}

	out, err := ICS(opts, "AB", "Dr. Alexandra Bartholomew-Whitfield", []string{"2025-06-02"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 75, "line %q", line)
		assert.NotContains(t, line, "\n")
	}

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "X-WR-CALNAME:Medical Intensive Care Unit Night Shift Rotation - Dr. Alexandra Bartholomew-Whitfield\r\n")
	assert.Contains(t, unfolded, "LOCATION:University Hospital\\, Medical Intensive Care Unit\\, Fourth Floor East Wing\r\n")
}

func TestICS_BadDate(t *testing.T) {
	_, err := ICS(CalendarOptions{Name: "x"}, "AB", "Adam", []string{"30/06/2025"})
	assert.Error(t, err)
}

func TestCalendarPDF(t *testing.T) {
	out, err := CalendarPDF(MonthCalendar{
		Title:       "Night Shift Schedule",
		Month:       "2025-06",
		Assigned:    map[string]string{"2025-06-01": "AB", "2025-06-02": "ZY"},
		Preferred:   map[string][]string{"2025-06-01": {"AB", "ZY"}},
		Unavailable: map[string][]string{"2025-06-03": {"AB"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestCalendarPDF_SinglePage(t *testing.T) {
	// February 2021 spans four calendar rows, the others six.
	for _, month := range []string{"2021-02", "2025-06", "2025-03", "2026-08"} {
		t.Run(month, func(t *testing.T) {
			cal := MonthCalendar{
				Title:       "Night Shift Schedule",
				Month:       month,
				Preferred:   map[string][]string{},
				Unavailable: map[string][]string{},
			}
			dates, err := scheduler.MonthDates(month)
			require.NoError(t, err)
			last := dates[len(dates)-1]
			cal.Preferred[last] = []string{"AB", "ZY", "CD"}
			cal.Unavailable[last] = []string{"EF", "GH"}

			pdf, err := calendarDocument(cal)
			require.NoError(t, err)
			assert.Equal(t, 1, pdf.PageCount())
		})
	}
}

func TestCalendarPDF_InvalidMonth(t *testing.T) {
	_, err := CalendarPDF(MonthCalendar{Month: "2025-13"})
	assert.ErrorIs(t, err, scheduler.ErrInvalidMonth)
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.Index(s, end); j >= 0 {
		return s[:j]
	}
	return s
}
