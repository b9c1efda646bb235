package model

import "time"

// View is the visible calendar unit.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView accepts "month", "week" or "day" and falls back to ViewMonth.
func ParseView(s string) View {
	switch View(s) {
	case ViewWeek, ViewDay:
		return View(s)
	default:
		return ViewMonth
	}
}

// CalendarEvent is the projection of one Task onto one day (or one hour of a
// day). All render hints are always present and default to false.
type CalendarEvent struct {
	Task           Task   `json:"task"`
	Title          string `json:"title"`
	Color          string `json:"color"`
	IsEndDate      bool   `json:"isEndDate"`
	IsStartOfDay   bool   `json:"isStartOfDay"`
	IsEndOfDay     bool   `json:"isEndOfDay"`
	IsContinuation bool   `json:"isContinuation"`
}

// CalendarDay is one grid cell. Cells are rebuilt wholesale, never patched.
type CalendarDay struct {
	Date           time.Time       `json:"date"`
	DayNumber      int             `json:"dayNumber"`
	IsCurrentMonth bool            `json:"isCurrentMonth"`
	IsToday        bool            `json:"isToday"`
	IsInBounds     bool            `json:"isInBounds"`
	Events         []CalendarEvent `json:"events"`
}
