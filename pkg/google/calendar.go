package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/index"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient publishes tasks to one Google calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	now        func() time.Time
}

func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, now: time.Now}
}

// SyncTask creates the task's event or patches the existing one.
func (c *CalendarClient) SyncTask(ctx context.Context, task model.Task) (*calendar.Event, error) {
	event, err := ConvertTaskToCalendarEvent(task, c.now())
	if err != nil {
		return nil, err
	}

	existing, err := c.findEvent(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		patch, err := EventNeedsUpdate(existing, event)
		if err != nil {
			slog.Warn("could not compare task with its calendar event", "task", task.ID, "error", err)
			return nil, err
		}
		if patch == nil {
			c.remember(task.ID, existing.Id)
			return existing, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return nil, err
		}
		c.remember(task.ID, updated.Id)
		return updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error creating event for task %s: %w", task.ID, err)
	}
	c.remember(task.ID, created.Id)
	return created, nil
}

// DeleteTask removes the task's event if one exists.
func (c *CalendarClient) DeleteTask(ctx context.Context, taskID string) error {
	existing, err := c.findEvent(ctx, taskID)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := c.DeleteEvent(ctx, existing.Id); err != nil {
			return err
		}
	}
	if c.index != nil {
		c.index.Remove(taskID)
	}
	return nil
}

// findEvent looks the task up in the local index first and falls back to an
// extended property search.
func (c *CalendarClient) findEvent(ctx context.Context, taskID string) (*calendar.Event, error) {
	if c.index != nil {
		if eventID := c.index.Get(taskID); eventID != "" {
			event, err := c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err == nil && event.Status != "cancelled" {
				return event, nil
			}
			slog.Debug("indexed event not usable, searching", "task", taskID, "event", eventID, "error", err)
		}
	}

	event, err := c.GetEventByTaskID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error searching for event: %w", err)
	}
	return event, nil
}

func (c *CalendarClient) remember(taskID, eventID string) {
	if c.index != nil {
		c.index.Set(taskID, eventID)
	}
}

func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// ListEvents fetches events starting at or after timeMin.
func (c *CalendarClient) ListEvents(ctx context.Context, timeMin time.Time) ([]*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).TimeMin(timeMin.Format(time.RFC3339)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events.Items, nil
}

// GetEventByTaskID searches for an event carrying the task's id. It returns
// nil without error when there is none.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
