package taskwarrior

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buyMilk = `{
	"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
	"description": "Buy milk",
	"status": "pending",
	"due": "20230101T120000Z",
	"project": "Groceries",
	"priority": "H",
	"tags": ["buy", "food"],
	"annotations": [
		{"entry": "20230101T120500Z", "description": "Don't forget almond milk"}
	]
}`

func TestParseTask(t *testing.T) {
	client := NewClient()
	task, err := client.ParseTask(strings.NewReader(buyMilk))
	require.NoError(t, err)

	assert.Equal(t, "f45a05b3-c12e-42e5-9c9c-333333333333", task.UUID)
	assert.Equal(t, "Buy milk", task.Description)
	assert.Equal(t, "Groceries", task.Project)
	assert.Len(t, task.Tags, 2)
	assert.Len(t, task.Annotations, 1)
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	assert.True(t, task.Due.Time.Equal(expectedDue))
}

func TestParseTasks_ArrayAndStream(t *testing.T) {
	client := NewClient()

	tasks, err := client.ParseTasks(strings.NewReader("[" + buyMilk + "," + buyMilk + "]"))
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	tasks, err = client.ParseTasks(strings.NewReader(buyMilk + "\n" + buyMilk + "\n"))
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = client.ParseTasks(strings.NewReader(`{"due": "yesterday"}`))
	assert.Error(t, err)
}

func TestToModel(t *testing.T) {
	task, err := NewClient().ParseTask(strings.NewReader(buyMilk))
	require.NoError(t, err)

	m, ok := ToModel(task)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", m.Name)
	assert.Equal(t, model.PriorityCritical, m.Priority)
	assert.Equal(t, model.StatusToDo, m.Status)
	assert.Equal(t, "Groceries", m.ProjectID)
	assert.Equal(t, Source, m.Source)
	assert.Empty(t, m.EndDate)
	assert.Equal(t, time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC).In(time.Local).Format(localLayout), m.StartDate)
	assert.Equal(t, "Don't forget almond milk", m.Description)
}

func TestToModel_ScheduledToDue(t *testing.T) {
	sched := &CustomTime{Time: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)}
	due := &CustomTime{Time: time.Date(2025, 6, 12, 17, 0, 0, 0, time.UTC)}
	started := &CustomTime{Time: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}

	m, ok := ToModel(Task{UUID: "a", Description: "Span", Status: PENDING, Scheduled: sched, Due: due, Start: started, Priority: "M"})
	require.True(t, ok)
	assert.NotEmpty(t, m.EndDate)
	assert.Equal(t, model.StatusInProgress, m.Status)
	assert.Equal(t, model.PriorityImportant, m.Priority)
}

func TestToModels_SkipsUndatedAndDeleted(t *testing.T) {
	due := &CustomTime{Time: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)}
	tasks := ToModels([]Task{
		{UUID: "undated", Status: PENDING},
		{UUID: "gone", Status: DELETED, Due: due},
		{UUID: "done", Status: COMPLETED, Due: due},
	})
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].ID)
	assert.Equal(t, model.StatusFinished, tasks[0].Status)
	assert.Equal(t, model.PriorityOptional, tasks[0].Priority)
}

func TestCustomTime(t *testing.T) {
	var got struct {
		Due   *CustomTime `json:"due"`
		Wait  *CustomTime `json:"wait"`
		Until *CustomTime `json:"until"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due": "20250610T170000Z", "wait": "0", "until": ""}`), &got))

	assert.True(t, got.Due.Equal(time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC)))
	assert.True(t, got.Wait.IsZero())
	assert.True(t, got.Until.IsZero())
	assert.False(t, got.Wait.set())
	assert.True(t, got.Due.set())

	var missing *CustomTime
	assert.False(t, missing.set())

	out, err := json.Marshal(got.Due)
	require.NoError(t, err)
	assert.Equal(t, `"20250610T170000Z"`, string(out))

	out, err = json.Marshal(CustomTime{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))

	var bad CustomTime
	assert.Error(t, json.Unmarshal([]byte(`"2025-06-10"`), &bad))
}
