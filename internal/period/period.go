// Package period holds the date arithmetic shared by every statistics
// reducer. Calendar windows ("this week", "this month") and trailing windows
// ("last 7 days") are distinct statistics and both are provided.
package period

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for all entry dates.
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format date, tolerating timestamps with a time
// component by truncating to the first ten characters.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(value) > 10 {
		value = value[:10]
	}
	return time.Parse(DateLayout, value)
}

// Day truncates t to midnight UTC so it compares cleanly against parsed
// entry dates.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of t's calendar week at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// InCalendarWeek reports whether date falls in the Monday-Sunday week
// containing now.
func InCalendarWeek(date, now time.Time) bool {
	start := WeekStart(now)
	d := Day(date)
	return !d.Before(start) && d.Before(start.AddDate(0, 0, 7))
}

// InCalendarMonth reports whether date falls in the calendar month
// containing now.
func InCalendarMonth(date, now time.Time) bool {
	return date.Year() == now.Year() && date.Month() == now.Month()
}

// InTrailingDays reports whether date falls inside the trailing window of
// the given length ending at (and including) today.
func InTrailingDays(date, now time.Time, days int) bool {
	today := Day(now)
	start := today.AddDate(0, 0, -(days - 1))
	d := Day(date)
	return !d.Before(start) && !d.After(today)
}

// DaysBetween returns the whole days from a to b at day granularity.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Round2 rounds a monetary value to two decimal places. Rounding happens at
// statistic computation, never at storage.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
