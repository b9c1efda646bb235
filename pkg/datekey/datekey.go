package datekey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical YYYY-MM-DD key layout.
const Layout = "2006-01-02"

var ErrInvalidKey = errors.New("invalid date key")

// Clock returns the current wall-clock time. Injected wherever "today" matters.
type Clock func() time.Time

// SystemClock is the host wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// ToKey formats t as YYYY-MM-DD using t's own calendar fields. The time is never
// converted to UTC first, so a late-evening local time keeps its local date.
func ToKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// anchorHour is the local hour date-only values are pinned to. Midnight does
// not exist on days where DST starts at 00:00; noon always does.
const anchorHour = 12

// On returns the local anchor time of calendar date y-m-d. Out-of-range days
// and months normalize the way time.Date does.
func On(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, anchorHour, 0, 0, 0, time.Local)
}

// ParseKey parses the date portion of an ISO-8601 date or date-time string and
// returns the local anchor time of that date.
func ParseKey(s string) (time.Time, error) {
	key, ok := KeyOf(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, s, err)
	}
	return On(t.Year(), t.Month(), t.Day()), nil
}

// KeyOf extracts and validates the YYYY-MM-DD portion of an ISO-8601 string.
func KeyOf(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(Layout) {
		return "", false
	}
	key := s[:len(Layout)]
	if len(s) > len(Layout) {
		if sep := s[len(Layout)]; sep != 'T' && sep != 't' && sep != ' ' {
			return "", false
		}
	}
	if _, err := time.Parse(Layout, key); err != nil {
		return "", false
	}
	return key, true
}

// HourOf returns the hour of the time-of-day component of an ISO-8601 date-time
// string, read literally with no zone conversion. Date-only or unparsable
// times yield 0.
func HourOf(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < len(Layout)+3 {
		return 0
	}
	h, err := strconv.Atoi(s[len(Layout)+1 : len(Layout)+3])
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	return h
}

// HasTime reports whether s carries a time-of-day component.
func HasTime(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > len(Layout)+1
}

// Date returns the local anchor time of t's calendar date.
func Date(t time.Time) time.Time {
	return On(t.Year(), t.Month(), t.Day())
}

// StartOfDay returns the first local instant of the date days after t's. When
// DST skips midnight the day starts at the end of the gap.
func StartOfDay(t time.Time, days int) time.Time {
	day := On(t.Year(), t.Month(), t.Day()+days)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	for ToKey(start) != ToKey(day) {
		start = start.Add(15 * time.Minute)
	}
	return start
}

// EndOf resolves when a timed entry starting at start ends. A timed end is
// used as is and a date-only end runs to the close of that day. A missing,
// unparsable or non-positive end yields start plus fallback.
func EndOf(start time.Time, end string, fallback time.Duration) time.Time {
	resolved := start
	switch {
	case HasTime(end):
		if t, err := ParseTime(end); err == nil {
			resolved = t
		}
	case end != "":
		if key, ok := KeyOf(end); ok && key > ToKey(start) {
			d, _ := ParseKey(key)
			resolved = StartOfDay(d, 1)
		}
	}
	if !resolved.After(start) {
		return start.Add(fallback)
	}
	return resolved
}

func IsSameDay(a, b time.Time) bool {
	return ToKey(a) == ToKey(b)
}

// IsToday compares t against the local date of now.
func IsToday(t time.Time, now time.Time) bool {
	return ToKey(t) == ToKey(now.In(time.Local))
}

// DaysInMonth returns the number of days in month m of year y.
func DaysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MondayIndex remaps a Sunday-first weekday to Monday = 0 .. Sunday = 6.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) - 1 + 7) % 7
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses an ISO-8601 date-time. Strings without a zone are read as
// local wall-clock time; date-only strings yield the anchor time of the date.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !HasTime(s) {
		return ParseKey(s)
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
}
