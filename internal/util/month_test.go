package util

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, time.February)

	if start.Day() != 1 || start.Month() != time.February {
		t.Errorf("Expected start Feb 1, got %v", start)
	}
	if end.Day() != 28 || end.Month() != time.February {
		t.Errorf("Expected end Feb 28, got %v", end)
	}
}

func TestMonthRange_LeapYear(t *testing.T) {
	_, end := MonthRange(2024, time.February)
	if end.Day() != 29 {
		t.Errorf("Expected Feb 29 in leap year, got %d", end.Day())
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.expected {
			t.Errorf("DaysInMonth(%d, %v) = %d, expected %d", tt.year, tt.month, got, tt.expected)
		}
	}
}

func TestActualRecurrenceDate_NormalDay(t *testing.T) {
	date := ActualRecurrenceDate(15, 2025, time.March)
	if date.Day() != 15 || date.Month() != time.March || date.Year() != 2025 {
		t.Errorf("Expected 2025-03-15, got %v", date)
	}
}

func TestActualRecurrenceDate_ClampsToMonthEnd(t *testing.T) {
	// Day 31 in a 30-day month clamps to 30
	date := ActualRecurrenceDate(31, 2025, time.April)
	if date.Day() != 30 {
		t.Errorf("Expected day 30, got %d", date.Day())
	}

	// Day 31 in February clamps to 28 (non-leap)
	date = ActualRecurrenceDate(31, 2025, time.February)
	if date.Day() != 28 {
		t.Errorf("Expected day 28, got %d", date.Day())
	}

	// Day 31 in February clamps to 29 (leap)
	date = ActualRecurrenceDate(31, 2024, time.February)
	if date.Day() != 29 {
		t.Errorf("Expected day 29, got %d", date.Day())
	}
}

func TestActualRecurrenceDate_ClampsInvalidDayToOne(t *testing.T) {
	date := ActualRecurrenceDate(0, 2025, time.March)
	if date.Day() != 1 {
		t.Errorf("Expected day 1, got %d", date.Day())
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	b := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	if !SameDate(a, b) {
		t.Error("Expected same date for different times on the same day")
	}
	if SameDate(a, c) {
		t.Error("Expected different dates")
	}
}
