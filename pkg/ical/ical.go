// Package ical exports tasks as an iCalendar feed and reads .ics files back
// in as tasks.
package ical

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/harrisonrobin/taskcal/pkg/colors"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
)

const (
	Source    = "ics"
	productID = "-//taskcal//taskcal//EN"

	propertyStatus = "X-TASKCAL-STATUS"
	propertyColor  = ics.ComponentProperty("COLOR")
)

// defaultDuration is the length of exported timed tasks that have no end.
const defaultDuration = 30 * time.Minute

// Export writes tasks as VEVENTs. Date-only tasks become all-day events with
// the exclusive end the format requires; timed tasks keep their hours.
// Tasks with an unparsable start are skipped.
func Export(w io.Writer, tasks []model.Task, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, t := range tasks {
		if err := addEvent(cal, t, now); err != nil {
			slog.Warn("skipping task in ics export", "task", t.ID, "error", err)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func addEvent(cal *ics.Calendar, t model.Task, now time.Time) error {
	start, err := datekey.ParseTime(t.StartDate)
	if err != nil {
		return err
	}
	end := start
	if t.EndDate != "" {
		if end, err = datekey.ParseTime(t.EndDate); err != nil {
			return err
		}
	}

	uid := t.ID
	if uid == "" {
		uid = uuid.NewSHA1(uuid.NameSpaceURL, []byte(t.Source+"#"+t.Name+"@"+t.StartDate)).String()
	}
	event := cal.AddEvent(uid)
	event.SetDtStampTime(now)
	event.SetSummary(t.Name)
	if t.Description != "" {
		event.SetDescription(t.Description)
	}
	event.SetProperty(ics.ComponentPropertyCategories, string(t.Priority))
	event.SetProperty(ics.ComponentPropertyPriority, strconv.Itoa(icsPriority(t.Priority)))
	event.SetProperty(propertyColor, colors.Hex(t.Priority))
	event.SetProperty(propertyStatus, string(t.Status))

	if !datekey.HasTime(t.StartDate) {
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(datekey.Date(end).AddDate(0, 0, 1))
		return nil
	}
	end = datekey.EndOf(start, t.EndDate, defaultDuration)
	event.SetStartAt(start)
	event.SetEndAt(end)
	return nil
}

// ReadFile parses the .ics file at path.
func ReadFile(path string) ([]model.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads VEVENTs as tasks. Events without a usable DTSTART are skipped.
func Parse(r io.Reader) ([]model.Task, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var tasks []model.Task
	for _, event := range cal.Events() {
		t, err := toTask(event)
		if err != nil {
			slog.Debug("skipping ics event", "uid", event.Id(), "error", err)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func toTask(event *ics.VEvent) (model.Task, error) {
	dtStart := event.GetProperty(ics.ComponentPropertyDtStart)
	if dtStart == nil {
		return model.Task{}, fmt.Errorf("missing DTSTART")
	}

	t := model.Task{
		ID:       event.Id(),
		Name:     value(event, ics.ComponentPropertySummary),
		Priority: model.PriorityOptional,
		Status:   model.StatusToDo,
		Source:   Source,
	}
	t.Description = value(event, ics.ComponentPropertyDescription)
	if s := value(event, propertyStatus); s != "" {
		t.Status = model.ParseStatus(s)
	}
	t.Priority = priorityOf(event)

	if len(dtStart.Value) == len("20060102") {
		start, err := event.GetAllDayStartAt()
		if err != nil {
			return model.Task{}, err
		}
		t.StartDate = datekey.ToKey(start)
		if end, err := event.GetAllDayEndAt(); err == nil {
			// DTEND of an all-day event is exclusive.
			last := end.AddDate(0, 0, -1)
			if datekey.ToKey(last) > t.StartDate {
				t.EndDate = datekey.ToKey(last)
			}
		}
		return t, nil
	}

	start, err := event.GetStartAt()
	if err != nil {
		return model.Task{}, err
	}
	t.StartDate = start.In(time.Local).Format("2006-01-02T15:04:05")
	if end, err := event.GetEndAt(); err == nil && end.After(start) {
		t.EndDate = end.In(time.Local).Format("2006-01-02T15:04:05")
	}
	return t, nil
}

func value(event *ics.VEvent, prop ics.ComponentProperty) string {
	if p := event.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func priorityOf(event *ics.VEvent) model.Priority {
	for _, c := range strings.Split(value(event, ics.ComponentPropertyCategories), ",") {
		switch p := model.ParsePriority(c); p {
		case model.PriorityOptional, model.PriorityImportant, model.PriorityCritical:
			return p
		}
	}
	n, err := strconv.Atoi(value(event, ics.ComponentPropertyPriority))
	if err != nil || n == 0 {
		return model.PriorityOptional
	}
	switch {
	case n <= 4:
		return model.PriorityCritical
	case n == 5:
		return model.PriorityImportant
	default:
		return model.PriorityOptional
	}
}

// icsPriority maps to RFC 5545 PRIORITY: 1 highest, 9 lowest.
func icsPriority(p model.Priority) int {
	switch p {
	case model.PriorityCritical:
		return 1
	case model.PriorityImportant:
		return 5
	case model.PriorityOptional:
		return 9
	default:
		return 0
	}
}
