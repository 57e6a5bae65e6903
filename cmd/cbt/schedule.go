package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/certprep/cbt/internal/dateutil"
	"github.com/certprep/cbt/internal/state"
)

// parseMonth reads "YYYY-MM"; empty means the month of now.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return dateutil.StartOfMonth(now), nil
	}
	return dateutil.Parse(s+"-01", now.Location())
}

// printSchedule draws month as a Sunday-first calendar. Days with a recorded
// attempt are marked with '*', today with brackets, and the attempts of the
// month are listed below the grid.
func printSchedule(w io.Writer, month time.Time, records []state.AttemptRecord, now time.Time) {
	fmt.Fprintln(w, colorize(month.Format("2006년 01월"), colorBold+colorCyan))
	fmt.Fprintln(w, " 일   월   화   수   목   금   토")

	var inMonth []state.AttemptRecord
	for _, rec := range records {
		if dateutil.IsSameMonth(rec.FinishedAt.In(month.Location()), month) {
			inMonth = append(inMonth, rec)
		}
	}

	for _, week := range dateutil.MonthGrid(month) {
		var line strings.Builder
		for _, day := range week {
			if !dateutil.IsSameMonth(day, month) {
				line.WriteString("     ")
				continue
			}
			mark := " "
			for _, rec := range inMonth {
				if dateutil.IsSameDay(rec.FinishedAt.In(month.Location()), day) {
					mark = "*"
					break
				}
			}
			cell := fmt.Sprintf("%2d%s", day.Day(), mark)
			if dateutil.IsSameDay(day, now) {
				cell = "[" + cell + "]"
			} else {
				cell = " " + cell + " "
			}
			line.WriteString(cell)
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	if len(inMonth) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, rec := range inMonth {
		fmt.Fprintf(w, "%s  %-12s %3d점\n", dateutil.Format(rec.FinishedAt.In(month.Location())), rec.CertName, rec.Score)
	}
	next := dateutil.AddDays(dateutil.EndOfMonth(month), 1)
	fmt.Fprintf(w, "다음 달: -schedule %s\n", next.Format("2006-01"))
}
