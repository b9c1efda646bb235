// Package bounds decides whether dates and calendar units fall inside an
// optional project window, and whether a navigation step may leave the current
// unit. A nil *Window means the calendar is unconstrained.
package bounds

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/grid"
	"github.com/harrisonrobin/taskcal/pkg/model"
)

var ErrInvertedWindow = errors.New("window end is before its start")

// openEndYears is how far past max(start, today) the year pickers reach for an
// open-ended window.
const openEndYears = 2

// Direction of a single navigation step.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Window is an inclusive [Start, End] date range. A nil End is open-ended.
type Window struct {
	Start time.Time
	End   *time.Time
}

// NewWindow parses ISO-8601 start and optional end dates. An empty end makes
// the window open-ended.
func NewWindow(start, end string) (*Window, error) {
	s, err := datekey.ParseKey(start)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	w := &Window{Start: s}
	if end == "" {
		return w, nil
	}
	e, err := datekey.ParseKey(end)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}
	if datekey.ToKey(e) < datekey.ToKey(s) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInvertedWindow, datekey.ToKey(e), datekey.ToKey(s))
	}
	w.End = &e
	return w, nil
}

// ForProject returns the window spanning a project's lifetime.
func ForProject(p model.Project) (*Window, error) {
	w, err := NewWindow(p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	return w, nil
}

func (w *Window) startKey() string {
	return datekey.ToKey(w.Start)
}

func (w *Window) endKey() (string, bool) {
	if w.End == nil {
		return "", false
	}
	return datekey.ToKey(*w.End), true
}

// IsInBounds reports start <= d && (no end || d <= end). A nil window contains
// every date.
func IsInBounds(d time.Time, w *Window) bool {
	return Intersects(d, d, w)
}

// Intersects reports whether any date of [first, last] lies inside w.
func Intersects(first, last time.Time, w *Window) bool {
	if w == nil {
		return true
	}
	if datekey.ToKey(last) < w.startKey() {
		return false
	}
	if end, ok := w.endKey(); ok && datekey.ToKey(first) > end {
		return false
	}
	return true
}

// Clamp moves d to the nearest window edge when it lies outside w.
func Clamp(d time.Time, w *Window) time.Time {
	if w == nil {
		return d
	}
	if datekey.ToKey(d) < w.startKey() {
		return datekey.Date(w.Start)
	}
	if end, ok := w.endKey(); ok && datekey.ToKey(d) > end {
		return datekey.Date(*w.End)
	}
	return d
}

// UnitRange returns the first and last dates of the unit that view shows
// around d.
func UnitRange(d time.Time, view model.View) (time.Time, time.Time) {
	switch view {
	case model.ViewWeek:
		return grid.WeekStart(d), grid.WeekEnd(d)
	case model.ViewDay:
		day := datekey.Date(d)
		return day, day
	default:
		return datekey.On(d.Year(), d.Month(), 1), datekey.On(d.Year(), d.Month(), datekey.DaysInMonth(d.Year(), d.Month()))
	}
}

// Step moves d one unit of view in dir: a month keeping the day of month
// (clipped to the target month's length), seven days, or one day.
func Step(d time.Time, view model.View, dir Direction) time.Time {
	switch view {
	case model.ViewWeek:
		return d.AddDate(0, 0, 7*int(dir))
	case model.ViewDay:
		return d.AddDate(0, 0, int(dir))
	default:
		return AddMonths(d, int(dir))
	}
}

// AddMonths adds n months to d without spilling into the following month.
func AddMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day()
	if last := datekey.DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// CanStepUnit reports whether stepping from current in dir keeps some part of
// the resulting visible unit inside w. For Previous that is the unit's last
// day (its edge facing the window start); for Next, its first day. A first
// month that the window only partly covers is therefore reachable on purpose.
func CanStepUnit(dir Direction, current time.Time, view model.View, w *Window) bool {
	if w == nil {
		return true
	}
	first, last := UnitRange(Step(current, view, dir), view)
	if dir == Previous {
		return datekey.ToKey(last) >= w.startKey()
	}
	if end, ok := w.endKey(); ok {
		return datekey.ToKey(first) <= end
	}
	return true
}

// CanShowMonth reports whether any day of month m in year y lies inside w.
func CanShowMonth(y int, m time.Month, w *Window) bool {
	first, last := UnitRange(datekey.On(y, m, 1), model.ViewMonth)
	return Intersects(first, last, w)
}

// AvailableYears lists the years that intersect w, for jump-to pickers. It is
// empty when w is nil; the caller then supplies its own range (see
// DefaultYears). Open-ended windows reach two years past max(start, now).
func AvailableYears(w *Window, now time.Time) []int {
	if w == nil {
		return nil
	}
	var years []int
	for y := w.Start.Year(); y <= lastYear(w, now); y++ {
		years = append(years, y)
	}
	return years
}

// AvailableMonths lists the months of year y that intersect w. It is empty when
// w is nil or y is outside AvailableYears.
func AvailableMonths(y int, w *Window, now time.Time) []time.Month {
	if w == nil || y < w.Start.Year() || y > lastYear(w, now) {
		return nil
	}
	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if CanShowMonth(y, m, w) {
			months = append(months, m)
		}
	}
	return months
}

// DefaultYears is the unconstrained picker range: two years either side of now.
func DefaultYears(now time.Time) []int {
	years := make([]int, 0, 2*openEndYears+1)
	for y := now.Year() - openEndYears; y <= now.Year()+openEndYears; y++ {
		years = append(years, y)
	}
	return years
}

func lastYear(w *Window, now time.Time) int {
	if w.End != nil {
		return w.End.Year()
	}
	y := w.Start.Year()
	if now.Year() > y {
		y = now.Year()
	}
	return y + openEndYears
}
