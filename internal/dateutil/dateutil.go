// Package dateutil holds calendar arithmetic for the schedule view and the
// exam date range. All functions are pure and keep the location of their input.
package dateutil

import "time"

// Layout is the wire/display format for calendar dates.
const Layout = "2006-01-02"

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a YYYY-MM-DD date in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(Layout, s, loc)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// IsSameMonth reports whether a and b fall in the same year and month.
func IsSameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// MonthGrid returns the Sunday-first weeks covering t's month. Days outside
// the month pad the first and last week.
func MonthGrid(t time.Time) [][7]time.Time {
	first := StartOfMonth(t)
	last := EndOfMonth(t)
	cur := AddDays(first, -int(first.Weekday()))

	var weeks [][7]time.Time
	for !cur.After(last) {
		var week [7]time.Time
		for i := range week {
			week[i] = cur
			cur = AddDays(cur, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// InRange reports whether day lies within [start, end], compared by calendar day.
// A zero start or end leaves that side open.
func InRange(day, start, end time.Time) bool {
	d := truncate(day)
	if !start.IsZero() && d.Before(truncate(start)) {
		return false
	}
	if !end.IsZero() && d.After(truncate(end)) {
		return false
	}
	return true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
