package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

// CustomTime is a timestamp in taskwarrior's compact UTC form. Taskwarrior
// writes "" or "0" for unset dates; both decode to the zero time.
type CustomTime struct {
	time.Time
}

const exportLayout = "20060102T150405Z"

func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "0" {
		ct.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(exportLayout, raw)
	if err != nil {
		return fmt.Errorf("taskwarrior timestamp %q: %w", raw, err)
	}
	ct.Time = t
	return nil
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.UTC().Format(exportLayout) + `"`), nil
}

func (ct *CustomTime) set() bool {
	return ct != nil && !ct.IsZero()
}

// Task is one entry of `task export`.
type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Due         *CustomTime `json:"due,omitempty"`
	Scheduled   *CustomTime `json:"scheduled,omitempty"`
	Status      string      `json:"status"`
	Project     string      `json:"project,omitempty"`
	Priority    string      `json:"priority,omitempty"` // H, M or L
	Tags        []string    `json:"tags,omitempty"`
	Annotations []struct {
		Description string      `json:"description"`
		Entry       *CustomTime `json:"entry"`
	} `json:"annotations,omitempty"`
	Start *CustomTime `json:"start,omitempty"`
	End   *CustomTime `json:"end,omitempty"`
}
