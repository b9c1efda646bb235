package taskwarrior

import (
	"time"

	"github.com/harrisonrobin/taskcal/pkg/model"
)

const Source = "taskwarrior"

// localLayout renders wall-clock local time; the calendar never converts
// zones itself.
const localLayout = "2006-01-02T15:04:05"

// ToModel converts an exported task. Scheduled is the start when set,
// otherwise due; due becomes the end when both are set. Deleted, recurring
// templates and undated tasks have no calendar presence.
func ToModel(t Task) (model.Task, bool) {
	if t.Status == DELETED || t.Status == RECURRING {
		return model.Task{}, false
	}

	var start, end string
	switch {
	case t.Scheduled.set():
		start = format(t.Scheduled.Time)
		if t.Due.set() && t.Due.After(t.Scheduled.Time) {
			end = format(t.Due.Time)
		}
	case t.Due.set():
		start = format(t.Due.Time)
	default:
		return model.Task{}, false
	}

	status := model.StatusToDo
	switch {
	case t.Status == COMPLETED:
		status = model.StatusFinished
	case t.Start.set():
		status = model.StatusInProgress
	}

	var desc string
	for i, a := range t.Annotations {
		if i > 0 {
			desc += "\n"
		}
		desc += a.Description
	}

	return model.Task{
		ID:          t.UUID,
		Name:        t.Description,
		Description: desc,
		StartDate:   start,
		EndDate:     end,
		Priority:    priority(t.Priority),
		Status:      status,
		ProjectID:   t.Project,
		Source:      Source,
		Tags:        t.Tags,
	}, true
}

// ToModels converts every task that has a calendar presence.
func ToModels(tasks []Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if m, ok := ToModel(t); ok {
			out = append(out, m)
		}
	}
	return out
}

func priority(p string) model.Priority {
	switch p {
	case "H":
		return model.PriorityCritical
	case "M":
		return model.PriorityImportant
	default:
		return model.PriorityOptional
	}
}

func format(t time.Time) string {
	return t.In(time.Local).Format(localLayout)
}
