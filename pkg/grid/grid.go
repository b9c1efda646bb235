// Package grid builds the day-cell skeletons of month, week and day views.
// Cells come back with Events and IsInBounds unset; the caller fills them in a
// second pass so the grid shape never depends on event data.
package grid

import (
	"time"

	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
)

const (
	DaysPerWeek   = 7
	WeeksPerMonth = 6
	// MonthCells is the fixed size of a month grid (6 rows x 7 columns, Monday first).
	MonthCells = DaysPerWeek * WeeksPerMonth
)

// BuildMonth returns the 42 cells of month m in year y, padded with trailing
// days of the previous month and leading days of the next one.
func BuildMonth(y int, m time.Month, now time.Time) []model.CalendarDay {
	first := datekey.On(y, m, 1)
	leading := datekey.MondayIndex(first.Weekday())
	inMonth := datekey.DaysInMonth(y, m)
	trailing := MonthCells - leading - inMonth
	if trailing < 0 {
		trailing = 0
	}

	days := make([]model.CalendarDay, 0, MonthCells)

	prev := first.AddDate(0, 0, -1)
	prevLast := prev.Day()
	for d := prevLast - leading + 1; d <= prevLast; d++ {
		days = append(days, cell(datekey.On(prev.Year(), prev.Month(), d), false, now))
	}

	for d := 1; d <= inMonth; d++ {
		days = append(days, cell(datekey.On(y, m, d), true, now))
	}

	next := datekey.On(y, m+1, 1)
	for d := 1; d <= trailing; d++ {
		days = append(days, cell(datekey.On(next.Year(), next.Month(), d), false, now))
	}
	return days
}

// BuildWeek returns the Monday..Sunday cells of the week containing date.
// IsCurrentMonth is relative to date's month.
func BuildWeek(date time.Time, now time.Time) []model.CalendarDay {
	monday := WeekStart(date)
	days := make([]model.CalendarDay, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		d := monday.AddDate(0, 0, i)
		days = append(days, cell(d, d.Month() == date.Month(), now))
	}
	return days
}

// BuildDay returns a fresh cell for a single date.
func BuildDay(date time.Time, now time.Time) model.CalendarDay {
	return cell(datekey.Date(date), true, now)
}

// WeekStart returns the Monday on or before date.
func WeekStart(date time.Time) time.Time {
	d := datekey.Date(date)
	return d.AddDate(0, 0, -datekey.MondayIndex(d.Weekday()))
}

// WeekEnd returns the Sunday on or after date.
func WeekEnd(date time.Time) time.Time {
	return WeekStart(date).AddDate(0, 0, DaysPerWeek-1)
}

func cell(d time.Time, current bool, now time.Time) model.CalendarDay {
	return model.CalendarDay{
		Date:           d,
		DayNumber:      d.Day(),
		IsCurrentMonth: current,
		IsToday:        datekey.IsToday(d, now),
	}
}
