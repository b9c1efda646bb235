package google

import (
	"context"
	"fmt"
	"net/http"

	"github.com/harrisonrobin/taskcal/pkg/index"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Scopes are the OAuth scopes the client needs.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// NewClient resolves calendarName among the user's calendars and returns a
// client bound to it.
func NewClient(ctx context.Context, httpClient *http.Client, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}

	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}

	return NewCalendarClient(srv, calendarID, idx), nil
}
