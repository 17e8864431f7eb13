package calendar

import (
	"fmt"
	"time"
)

// WeekdayHeaders are the grid column titles, Sunday first.
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DaysInMonth returns the Gregorian day count, taken as day 0 of the next month.
func DaysInMonth(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns 0..6 with 0 = Sunday.
func FirstWeekdayOfMonth(month time.Month, year int) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// IsToday compares calendar days only.
func IsToday(date, now time.Time) bool {
	return dayKey(date).Equal(dayKey(now))
}

// IsPastDate is true when date's calendar day is strictly before now's.
func IsPastDate(date, now time.Time) bool {
	return dayKey(date).Before(dayKey(now))
}

// StartOfDay zeroes the time of day, keeping the location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// dayKey drops the location so dates from different zones compare by their
// printed calendar day.
func dayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
