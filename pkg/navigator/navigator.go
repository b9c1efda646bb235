// Package navigator is the single-owner controller behind every calendar
// view. It holds the current date and view, refuses steps that would leave the
// project window, and rebuilds the visible grid after every transition.
//
// A Navigator is not safe for concurrent use; callers serialize access.
package navigator

import (
	"time"

	"github.com/harrisonrobin/taskcal/pkg/bounds"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/grid"
	"github.com/harrisonrobin/taskcal/pkg/locale"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/projector"
)

// NavigationState is a snapshot of the navigator's state.
type NavigationState struct {
	CurrentDate time.Time
	CurrentView model.View
	SelectedDay *model.CalendarDay
}

// Options configures a Navigator. Zero values mean: no window, the system
// clock, English labels and the month view.
type Options struct {
	Window *bounds.Window
	Clock  datekey.Clock
	Locale *locale.Table
	View   model.View
}

type Navigator struct {
	window *bounds.Window
	clock  datekey.Clock
	locale locale.Table
	tasks  []model.Task

	state NavigationState
	grid  []model.CalendarDay
}

// New starts in the requested view (month by default) on today, moved into
// the window when today lies outside it.
func New(tasks []model.Task, opts Options) *Navigator {
	n := &Navigator{
		window: opts.Window,
		clock:  opts.Clock,
		locale: locale.English,
		tasks:  append([]model.Task(nil), tasks...),
	}
	if n.clock == nil {
		n.clock = datekey.SystemClock
	}
	if opts.Locale != nil {
		n.locale = *opts.Locale
	}
	view := opts.View
	if view == "" {
		view = model.ViewMonth
	}
	n.state = NavigationState{
		CurrentDate: bounds.Clamp(n.today(), n.window),
		CurrentView: view,
	}
	n.rebuild()
	return n
}

func (n *Navigator) today() time.Time {
	return datekey.Date(n.clock())
}

// State returns a copy of the current state.
func (n *Navigator) State() NavigationState {
	s := n.state
	if s.SelectedDay != nil {
		day := *s.SelectedDay
		s.SelectedDay = &day
	}
	return s
}

func (n *Navigator) CurrentDate() time.Time { return n.state.CurrentDate }

func (n *Navigator) View() model.View { return n.state.CurrentView }

func (n *Navigator) Window() *bounds.Window { return n.window }

// Grid returns the cells of the current view: 42 for month, 7 for week and
// the selected day alone for day view.
func (n *Navigator) Grid() []model.CalendarDay {
	return n.grid
}

// SelectedDay is set only in day view.
func (n *Navigator) SelectedDay() *model.CalendarDay {
	return n.state.SelectedDay
}

// MonthGrid builds the 42-cell grid of the current month regardless of view.
func (n *Navigator) MonthGrid() []model.CalendarDay {
	d := n.state.CurrentDate
	return n.decorate(grid.BuildMonth(d.Year(), d.Month(), n.clock()))
}

// WeekGrid builds the 7-cell grid of the current week regardless of view.
func (n *Navigator) WeekGrid() []model.CalendarDay {
	return n.decorate(grid.BuildWeek(n.state.CurrentDate, n.clock()))
}

// HourEvents returns the events occupying hour on date.
func (n *Navigator) HourEvents(date time.Time, hour int) []model.CalendarEvent {
	return projector.EventsForHour(projector.EventsForDate(n.tasks, date), date, hour)
}

// Hours returns the hour table of date.
func (n *Navigator) Hours(date time.Time) [projector.HoursPerDay][]model.CalendarEvent {
	return projector.HoursForDate(n.tasks, date)
}

// SetTasks replaces the task snapshot and rebuilds.
func (n *Navigator) SetTasks(tasks []model.Task) {
	n.tasks = append([]model.Task(nil), tasks...)
	n.rebuild()
}

// ChangeView switches the visible unit. Entering day view builds a fresh
// selected day for the current date.
func (n *Navigator) ChangeView(v model.View) {
	n.state.CurrentView = model.ParseView(string(v))
	n.rebuild()
}

func (n *Navigator) CanNavigatePrevious() bool {
	return bounds.CanStepUnit(bounds.Previous, n.state.CurrentDate, n.state.CurrentView, n.window)
}

func (n *Navigator) CanNavigateNext() bool {
	return bounds.CanStepUnit(bounds.Next, n.state.CurrentDate, n.state.CurrentView, n.window)
}

// NavigatePrevious steps back one unit. It reports false and leaves the state
// untouched when the step would leave the window.
func (n *Navigator) NavigatePrevious() bool {
	return n.step(bounds.Previous)
}

// NavigateNext steps forward one unit. It reports false and leaves the state
// untouched when the step would leave the window.
func (n *Navigator) NavigateNext() bool {
	return n.step(bounds.Next)
}

func (n *Navigator) step(dir bounds.Direction) bool {
	if !bounds.CanStepUnit(dir, n.state.CurrentDate, n.state.CurrentView, n.window) {
		return false
	}
	next := bounds.Step(n.state.CurrentDate, n.state.CurrentView, dir)
	n.state.CurrentDate = bounds.Clamp(next, n.window)
	n.rebuild()
	return true
}

// JumpTo moves to month m of year y, keeping the view and the day of month
// (clipped to the month's length and then into the window). It reports false
// when no day of the target month lies inside the window.
func (n *Navigator) JumpTo(m time.Month, y int) bool {
	if m < time.January || m > time.December || !bounds.CanShowMonth(y, m, n.window) {
		return false
	}
	cur := n.state.CurrentDate
	day := cur.Day()
	if last := datekey.DaysInMonth(y, m); day > last {
		day = last
	}
	target := datekey.On(y, m, day)
	n.state.CurrentDate = bounds.Clamp(target, n.window)
	n.rebuild()
	return true
}

// GoTo moves to date keeping the view. Dates outside the window are refused.
func (n *Navigator) GoTo(date time.Time) bool {
	if !bounds.IsInBounds(date, n.window) {
		return false
	}
	n.state.CurrentDate = datekey.Date(date)
	n.rebuild()
	return true
}

// SelectDay focuses day and switches to day view. Days outside the window
// are refused.
func (n *Navigator) SelectDay(day model.CalendarDay) bool {
	if !bounds.IsInBounds(day.Date, n.window) {
		return false
	}
	n.state.CurrentDate = datekey.Date(day.Date)
	n.state.CurrentView = model.ViewDay
	n.rebuild()
	return true
}

// Today moves back to today, clamped into the window.
func (n *Navigator) Today() {
	n.state.CurrentDate = bounds.Clamp(n.today(), n.window)
	n.rebuild()
}

// AvailableYears lists the years a jump may target: the window's years, or two
// years either side of today when unconstrained.
func (n *Navigator) AvailableYears() []int {
	if n.window == nil {
		return bounds.DefaultYears(n.clock())
	}
	return bounds.AvailableYears(n.window, n.clock())
}

// AvailableMonths lists the months of y a jump may target.
func (n *Navigator) AvailableMonths(y int) []time.Month {
	if n.window == nil {
		months := make([]time.Month, 0, 12)
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
		return months
	}
	return bounds.AvailableMonths(y, n.window, n.clock())
}

func (n *Navigator) MonthYearLabel() string {
	d := n.state.CurrentDate
	return n.locale.MonthYear(d.Year(), d.Month())
}

func (n *Navigator) WeekRangeLabel() string {
	d := n.state.CurrentDate
	return n.locale.Range(grid.WeekStart(d), grid.WeekEnd(d))
}

// Label is the heading of the current view.
func (n *Navigator) Label() string {
	switch n.state.CurrentView {
	case model.ViewWeek:
		return n.WeekRangeLabel()
	case model.ViewDay:
		return n.locale.Day(n.state.CurrentDate)
	default:
		return n.MonthYearLabel()
	}
}

func (n *Navigator) Locale() locale.Table { return n.locale }

// rebuild recomputes the visible grid and selected day from scratch.
func (n *Navigator) rebuild() {
	now := n.clock()
	d := n.state.CurrentDate
	n.state.SelectedDay = nil
	switch n.state.CurrentView {
	case model.ViewWeek:
		n.grid = n.decorate(grid.BuildWeek(d, now))
	case model.ViewDay:
		day := n.decorate([]model.CalendarDay{grid.BuildDay(d, now)})
		n.grid = day
		selected := day[0]
		n.state.SelectedDay = &selected
	default:
		n.grid = n.decorate(grid.BuildMonth(d.Year(), d.Month(), now))
	}
}

// decorate is the second grid pass: bounds flags and events.
func (n *Navigator) decorate(days []model.CalendarDay) []model.CalendarDay {
	for i := range days {
		days[i].IsInBounds = bounds.IsInBounds(days[i].Date, n.window)
		days[i].Events = projector.EventsForDate(n.tasks, days[i].Date)
	}
	return days
}
