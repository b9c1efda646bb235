package model

import "strings"

type Priority string

const (
	PriorityOptional  Priority = "OPTIONAL"
	PriorityImportant Priority = "IMPORTANT"
	PriorityCritical  Priority = "CRITICAL"
)

type Status string

const (
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// ParsePriority maps a case-insensitive name to a Priority. Unknown names are
// returned as-is so the color table can fall back to its neutral color.
func ParsePriority(s string) Priority {
	return Priority(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseStatus maps a case-insensitive name to a Status, accepting "TODO" and
// "DONE" spellings. Unknown names default to StatusToDo.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "IN_PROGRESS", "STARTED", "ACTIVE":
		return StatusInProgress
	case "FINISHED", "DONE", "COMPLETED":
		return StatusFinished
	default:
		return StatusToDo
	}
}

// Task represents a task from any source. StartDate and EndDate are ISO-8601
// date or date-time strings; an empty EndDate means the task lasts one day.
type Task struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	ProjectID   string   `json:"projectId,omitempty"`
	Source      string   `json:"source,omitempty"` // "taskwarrior", "orgmode", "ics" or "json"
	Tags        []string `json:"tags,omitempty"`
}

// Project is the owner of a bounded calendar. EndDate is empty for open-ended
// projects.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}
