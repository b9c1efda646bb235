package google

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/colors"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property that links an event back to
// its task.
const TaskIDProperty = "taskcal_id"

const (
	PrefixFinished   = "✓"
	PrefixInProgress = "‣"
	PrefixOverdue    = "!"

	defaultDuration = 30 * time.Minute
)

var ErrUndated = errors.New("task has no start date")

// Summary returns the event title for a task: its name, prefixed by a marker
// for finished, started or overdue tasks.
func Summary(task model.Task, now time.Time) string {
	prefix := ""
	switch {
	case task.Status == model.StatusFinished:
		prefix = PrefixFinished
	case task.Status == model.StatusInProgress:
		prefix = PrefixInProgress
	case IsOverdue(task, now):
		prefix = PrefixOverdue
	}
	if prefix == "" {
		return task.Name
	}
	return fmt.Sprintf("%s %s", prefix, task.Name)
}

// IsOverdue reports whether an open task's last day is before today.
func IsOverdue(task model.Task, now time.Time) bool {
	if task.Status == model.StatusFinished {
		return false
	}
	last := LastDayKey(task)
	return last != "" && last < datekey.ToKey(now)
}

// LastDayKey is the key of the task's end date, or its start date when it has
// no usable end. It is empty for undated tasks.
func LastDayKey(task model.Task) string {
	if key, ok := datekey.KeyOf(task.EndDate); ok {
		return key
	}
	key, _ := datekey.KeyOf(task.StartDate)
	return key
}

// ConvertTaskToCalendarEvent builds the event a task should be published as.
// Date-only tasks become all-day events with an exclusive end date; timed
// tasks keep their times, lasting thirty minutes when they have no end.
func ConvertTaskToCalendarEvent(task model.Task, now time.Time) (*calendar.Event, error) {
	if task.StartDate == "" {
		return nil, fmt.Errorf("%w: %s", ErrUndated, task.ID)
	}
	start, err := datekey.ParseTime(task.StartDate)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}

	event := &calendar.Event{
		Summary:     Summary(task, now),
		Description: description(task),
		ColorId:     colors.GoogleID(task.Priority),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: task.ID},
		},
	}

	if !datekey.HasTime(task.StartDate) {
		last := start
		if parsed, err := datekey.ParseKey(task.EndDate); err == nil && !parsed.Before(start) {
			last = parsed
		}
		event.Start = &calendar.EventDateTime{Date: datekey.ToKey(start)}
		event.End = &calendar.EventDateTime{Date: datekey.ToKey(last.AddDate(0, 0, 1))}
		return event, nil
	}

	end := datekey.EndOf(start, task.EndDate, defaultDuration)
	event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)}
	return event, nil
}

func description(task model.Task) string {
	var b strings.Builder

	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			b.WriteString(fmt.Sprintf("#%s ", tag))
		}
		b.WriteString("\n\n")
	}
	if task.Description != "" {
		b.WriteString(task.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Status: %s\n", task.Status))
	b.WriteString(fmt.Sprintf("Priority: %s\n", task.Priority))
	if task.ProjectID != "" {
		b.WriteString(fmt.Sprintf("Project: %s\n", task.ProjectID))
	}
	if task.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", task.Source))
	}
	b.WriteString(fmt.Sprintf("ID: %s\n", task.ID))
	return b.String()
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when the event is current.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	sameStart, err := sameTime(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	sameEnd, err := sameTime(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !sameStart || !sameEnd {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameTime(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.DateTime == "" || b.DateTime == "" {
		return a.DateTime == b.DateTime && a.Date == b.Date, nil
	}
	at, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	bt, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return at.Equal(bt), nil
}
