// Package projector maps a task snapshot onto calendar days and hour slots.
package projector

import (
	"log/slog"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/colors"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
)

// HoursPerDay is the number of hour slots in week and day views.
const HoursPerDay = 24

// span is a task's day-level interval plus the hours read from its
// time-of-day components.
type span struct {
	startKey  string
	endKey    string
	startHour int
	endHour   int
}

// spanOf derives the interval of t. ok is false when the start date is
// missing or malformed; such tasks are left out of every projection.
func spanOf(t model.Task) (span, bool) {
	startKey, ok := datekey.KeyOf(t.StartDate)
	if !ok {
		slog.Debug("skipping task with invalid start date", "task", t.ID, "startDate", t.StartDate)
		return span{}, false
	}
	s := span{
		startKey:  startKey,
		endKey:    startKey,
		startHour: datekey.HourOf(t.StartDate),
	}
	if t.EndDate != "" {
		endKey, ok := datekey.KeyOf(t.EndDate)
		if !ok {
			slog.Debug("ignoring invalid end date", "task", t.ID, "endDate", t.EndDate)
		} else {
			s.endKey = endKey
			s.endHour = datekey.HourOf(t.EndDate)
		}
	}
	return s, true
}

// covers reports startKey <= key <= endKey. An inverted interval covers
// nothing.
func (s span) covers(key string) bool {
	return s.startKey <= key && key <= s.endKey
}

// EventsForDate returns one event per task whose [start, end] interval
// includes date, in task order.
func EventsForDate(tasks []model.Task, date time.Time) []model.CalendarEvent {
	key := datekey.ToKey(date)
	var events []model.CalendarEvent
	for _, t := range tasks {
		s, ok := spanOf(t)
		if !ok || !s.covers(key) {
			continue
		}
		events = append(events, model.CalendarEvent{
			Task:      t,
			Title:     t.Name,
			Color:     colors.Hex(t.Priority),
			IsEndDate: key == s.endKey,
		})
	}
	return events
}

// EventsForHour narrows dayEvents (as returned by EventsForDate for date) to
// those occupying hour on date, with continuity flags set:
//
//   - start day: hours >= start hour
//   - end day of a multi-day span: hours <= end hour
//   - interior days: every hour
func EventsForHour(dayEvents []model.CalendarEvent, date time.Time, hour int) []model.CalendarEvent {
	key := datekey.ToKey(date)
	var out []model.CalendarEvent
	for _, ev := range dayEvents {
		s, ok := spanOf(ev.Task)
		if !ok || !s.covers(key) || !s.occupies(key, hour) {
			continue
		}
		firstHour := 0
		if key == s.startKey {
			firstHour = s.startHour
		}
		ev.IsContinuation = key > s.startKey || (key == s.startKey && hour > s.startHour)
		ev.IsStartOfDay = hour == firstHour
		ev.IsEndOfDay = key == s.endKey && hour == s.endHour
		out = append(out, ev)
	}
	return out
}

func (s span) occupies(key string, hour int) bool {
	switch {
	case key == s.startKey:
		return hour >= s.startHour
	case key == s.endKey:
		return hour <= s.endHour
	case s.startKey < key && key < s.endKey:
		return true
	default:
		return false
	}
}

// HoursForDate projects tasks onto every hour slot of date.
func HoursForDate(tasks []model.Task, date time.Time) [HoursPerDay][]model.CalendarEvent {
	var hours [HoursPerDay][]model.CalendarEvent
	dayEvents := EventsForDate(tasks, date)
	if len(dayEvents) == 0 {
		return hours
	}
	for h := 0; h < HoursPerDay; h++ {
		hours[h] = EventsForHour(dayEvents, date, h)
	}
	return hours
}
