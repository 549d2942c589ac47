package planner

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date used for plan dates and week starts.
const DateLayout = "2006-01-02"

// ErrOutsideWindow is returned for dates outside the planning window.
var ErrOutsideWindow = errors.New("date is outside the planning window")

// WeekStart returns the Monday, at midnight, of the week containing t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// FormatDate renders t as an ISO date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// NormalizeWeek parses any date and returns the ISO Monday of its week.
func NormalizeWeek(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(WeekStart(t)), nil
}

// WeekDates returns the seven ISO dates starting at weekStart.
func WeekDates(weekStart string) ([]string, error) {
	start, err := ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates, nil
}

// Window returns the Mondays of the previous, current and next week relative to today.
func Window(today time.Time) (previous, current, next time.Time) {
	current = WeekStart(today)
	return current.AddDate(0, 0, -7), current, current.AddDate(0, 0, 7)
}

// InWindow reports whether date falls between the previous Monday and the
// next Sunday, inclusive.
func InWindow(today, date time.Time) bool {
	previous, _, next := Window(today)
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, previous.Location())
	return !day.Before(previous) && day.Before(next.AddDate(0, 0, 7))
}

// CheckWindow parses date and returns ErrOutsideWindow when planning it is not allowed.
func CheckWindow(today time.Time, date string) error {
	t, err := ParseDate(date)
	if err != nil {
		return err
	}
	if !InWindow(today, t) {
		return fmt.Errorf("%w: %s", ErrOutsideWindow, date)
	}
	return nil
}
