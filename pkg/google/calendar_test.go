package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/index"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// fakeCalendar serves the handful of Events endpoints the client uses.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	patches int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const base = "/calendars/cal/events"
	switch {
	case r.Method == http.MethodGet && r.URL.Path == base:
		var items []*calendar.Event
		want := r.URL.Query().Get("privateExtendedProperty")
		for _, e := range f.events {
			if want == TaskIDProperty+"="+e.ExtendedProperties.Private[TaskIDProperty] {
				items = append(items, e)
			}
		}
		json.NewEncoder(w).Encode(&calendar.Events{Items: items})
	case r.Method == http.MethodPost && r.URL.Path == base:
		var e calendar.Event
		json.NewDecoder(r.Body).Decode(&e)
		e.Id = "evt-" + e.ExtendedProperties.Private[TaskIDProperty]
		f.events[e.Id] = &e
		json.NewEncoder(w).Encode(&e)
	case strings.HasPrefix(r.URL.Path, base+"/"):
		id := strings.TrimPrefix(r.URL.Path, base+"/")
		e, ok := f.events[id]
		if !ok {
			http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(e)
		case http.MethodPatch:
			var p calendar.Event
			json.NewDecoder(r.Body).Decode(&p)
			if p.Summary != "" {
				e.Summary = p.Summary
			}
			f.patches++
			json.NewEncoder(w).Encode(e)
		case http.MethodDelete:
			delete(f.events, id)
			w.WriteHeader(http.StatusNoContent)
		}
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T) (*CalendarClient, *fakeCalendar, *index.EventIndex) {
	t.Helper()
	fake := &fakeCalendar{events: map[string]*calendar.Event{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	srv, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)

	idx, err := index.NewEventIndex(t.TempDir())
	require.NoError(t, err)
	client := NewCalendarClient(srv, "cal", idx)
	client.now = func() time.Time { return now }
	return client, fake, idx
}

func TestSyncTask_CreatesThenPatches(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)

	task := model.Task{ID: "t1", Name: "Sprint", StartDate: "2025-06-12", Status: model.StatusToDo}
	created, err := client.SyncTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, "evt-t1", created.Id)
	assert.Equal(t, "evt-t1", idx.Get("t1"))

	_, err = client.SyncTask(ctx, task)
	require.NoError(t, err)
	assert.Zero(t, fake.patches)

	task.Status = model.StatusFinished
	updated, err := client.SyncTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, "✓ Sprint", updated.Summary)
	assert.Equal(t, 1, fake.patches)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)

	task := model.Task{ID: "t1", Name: "Sprint", StartDate: "2025-06-12"}
	_, err := client.SyncTask(ctx, task)
	require.NoError(t, err)

	require.NoError(t, client.DeleteTask(ctx, "t1"))
	assert.Empty(t, fake.events)
	assert.Empty(t, idx.Get("t1"))

	require.NoError(t, client.DeleteTask(ctx, "missing"))
}
