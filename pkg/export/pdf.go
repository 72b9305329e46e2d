package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MonthCalendar is the content of a printable month. Maps are keyed by
// YYYY-MM-DD and hold doctor initials.
type MonthCalendar struct {
	Title       string
	Month       string
	Assigned    map[string]string
	Preferred   map[string][]string
	Unavailable map[string][]string
}

const (
	pageMargin   = 12.0
	headerHeight = 8.0
	maxRowHeight = 24.0
	// legendHeight covers the gap above the legend, its title and its rows.
	legendHeight = 30.0
)

// CalendarPDF renders cal as a landscape month grid, weekends shaded, with
// the assigned doctor, "Unassigned" gaps and the preference annotations of
// every day. The grid and legend always fit on one page.
func CalendarPDF(cal MonthCalendar) ([]byte, error) {
	pdf, err := calendarDocument(cal)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func calendarDocument(cal MonthCalendar) (*gofpdf.Fpdf, error) {
	first, err := scheduler.ParseMonth(cal.Month)
	if err != nil {
		return nil, err
	}
	dates, err := scheduler.MonthDates(cal.Month)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / 7

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - %s", cal.Title, first.Format("January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for _, day := range weekdays {
		pdf.CellFormat(colWidth, headerHeight, day, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)

	top := pdf.GetY()
	offset := (int(first.Weekday()) + 6) % 7 // Monday first
	weeks := (offset + len(dates) + 6) / 7

	// Six-week months shrink the rows so the legend stays on the page.
	rowHeight := maxRowHeight
	if fit := (pageHeight - pageMargin - top - legendHeight) / float64(weeks); fit < rowHeight {
		rowHeight = fit
	}

	for i, date := range dates {
		slot := offset + i
		col, row := slot%7, slot/7
		x := pageMargin + float64(col)*colWidth
		y := top + float64(row)*rowHeight
		drawDay(pdf, cal, date, i+1, x, y, colWidth, rowHeight, col >= 5)
	}

	pdf.SetXY(pageMargin, top+float64(weeks)*rowHeight+4)
	drawLegend(pdf)

	return pdf, pdf.Error()
}

func drawDay(pdf *gofpdf.Fpdf, cal MonthCalendar, date string, day int, x, y, w, h float64, weekend bool) {
	if weekend {
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(x, y, w, h, "FD")
	} else {
		pdf.Rect(x, y, w, h, "D")
	}

	inner := w - 3
	pdf.SetXY(x+1.5, y+1)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(inner, 5, strconv.Itoa(day), "", 2, "L", false, 0, "")

	if initials, ok := cal.Assigned[date]; ok {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(inner, 6, initials, "", 2, "C", false, 0, "")
	} else {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(inner, 6, "Unassigned", "", 2, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Arial", "", 7)
	if names := cal.Preferred[date]; len(names) > 0 {
		pdf.SetTextColor(0, 128, 0)
		pdf.MultiCell(inner, 3.2, "Pref: "+strings.Join(names, ", "), "", "L", false)
	}
	if names := cal.Unavailable[date]; len(names) > 0 {
		pdf.SetX(x + 1.5)
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(inner, 3.2, "Unavail: "+strings.Join(names, ", "), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
}

func drawLegend(pdf *gofpdf.Fpdf) {
	rows := [][2]string{
		{"Doctor Initials", "Assigned doctor for that night"},
		{"Pref:", "Doctors who preferred to work this day"},
		{"Unavail:", "Doctors unavailable this day"},
		{"Unassigned", "No doctor assigned yet"},
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 5, "Legend:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(35, 4.5, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 4.5, r[1], "", 1, "L", false, 0, "")
	}
}
