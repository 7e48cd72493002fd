package util

import "time"

// MonthRange returns the first and last day of the given month as date-only
// UTC values.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ActualRecurrenceDate returns the concrete date for a recurrence day in a
// given month, clamping days that exceed the month length to the last day
// (e.g. day 31 in February returns Feb 28/29). Days below 1 are clamped to 1.
func ActualRecurrenceDate(recurrenceDay int32, year int, month time.Month) time.Time {
	day := int(recurrenceDay)
	if day < 1 {
		day = 1
	}
	lastDay := DaysInMonth(year, month)
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two instants fall on the same calendar date,
// ignoring time of day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
