// Package overdue tracks published tasks that are still open so their
// calendar events can be re-titled once their last day has passed.
package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/datekey"
)

const tableFile = "pending_tasks.json"

type Entry struct {
	TaskID  string `json:"task_id"`
	GCalID  string `json:"gcal_id"`
	Summary string `json:"summary"`
	DueKey  string `json:"due"` // YYYY-MM-DD of the task's last day
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

// NewTable loads <dir>/pending_tasks.json if it exists.
func NewTable(dir string) (*Table, error) {
	t := &Table{
		Path:    filepath.Join(dir, tableFile),
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(t.Path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(t); err != nil {
		return err
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	return nil
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Update tracks an open task by the key of its last day. An empty dueKey
// stops tracking it.
func (t *Table) Update(taskID, gcalID, summary, dueKey string) {
	if dueKey == "" {
		t.Remove(taskID)
		return
	}
	e := Entry{TaskID: taskID, GCalID: gcalID, Summary: summary, DueKey: dueKey}
	if old, exists := t.Entries[taskID]; !exists || old != e {
		t.Entries[taskID] = e
		t.dirty = true
	}
}

func (t *Table) Remove(taskID string) {
	if _, exists := t.Entries[taskID]; exists {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep removes and returns the entries whose last day is before today's
// date, ordered by due date.
func (t *Table) Sweep(now time.Time) []Entry {
	today := datekey.ToKey(now)
	var swept []Entry
	for id, entry := range t.Entries {
		if entry.DueKey < today {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	sort.Slice(swept, func(i, j int) bool {
		if swept[i].DueKey != swept[j].DueKey {
			return swept[i].DueKey < swept[j].DueKey
		}
		return swept[i].TaskID < swept[j].TaskID
	})
	return swept
}
