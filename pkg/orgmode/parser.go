package orgmode

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrisonrobin/taskcal/pkg/model"
)

const Source = "orgmode"

var (
	headlineRegex  = regexp.MustCompile(`^(\*+)\s+(TODO|STARTED|NEXT|DONE)\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(\w+(:\w+)*):))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[^\s>\d]+)?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	deadlineRegex  = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[^\s>\d]+)?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	idRegex        = regexp.MustCompile(`:ID:\s+(\S+)`)
	categoryRegex  = regexp.MustCompile(`^#\+CATEGORY:\s+(\S+)`)
)

// parseFile parses an Org-mode file and returns a slice of tasks.
func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files and returns a slice of tasks.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

type entry struct {
	task      model.Task
	scheduled string
	deadline  string
}

// Parse reads TODO/STARTED/NEXT/DONE headlines. SCHEDULED is the start and
// DEADLINE the end; a headline with only a DEADLINE starts on it. Headlines
// without an :ID: property get a stable id derived from source and title.
// Undated headlines are dropped.
func Parse(r io.Reader, source string) ([]model.Task, error) {
	slog.Debug("parsing org file", "source", source)
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *entry
	category := ""

	flush := func() {
		if current == nil {
			return
		}
		if t, ok := current.finish(source); ok {
			tasks = append(tasks, t)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := categoryRegex.FindStringSubmatch(line); m != nil {
			category = m[1]
			continue
		}
		if strings.HasPrefix(line, "*") {
			flush()
			m := headlineRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			current = &entry{task: model.Task{
				Name:      strings.TrimSpace(m[4]),
				Status:    status(m[2]),
				Priority:  priority(m[3]),
				ProjectID: category,
				Source:    Source,
			}}
			if m[6] != "" {
				current.task.Tags = strings.Split(m[6], ":")
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := scheduledRegex.FindStringSubmatch(line); m != nil {
			current.scheduled = stamp(m[1], m[2])
		}
		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			current.deadline = stamp(m[1], m[2])
		}
		if m := idRegex.FindStringSubmatch(line); m != nil {
			current.task.ID = m[1]
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (e *entry) finish(source string) (model.Task, bool) {
	t := e.task
	switch {
	case e.scheduled != "":
		t.StartDate = e.scheduled
		t.EndDate = e.deadline
	case e.deadline != "":
		t.StartDate = e.deadline
	default:
		return model.Task{}, false
	}
	if t.Name == "" {
		return model.Task{}, false
	}
	if t.ID == "" {
		t.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"#"+t.Name+"@"+t.StartDate)).String()
	}
	return t, true
}

// stamp joins an org date and optional H:MM time into ISO-8601.
func stamp(date, clock string) string {
	if clock == "" {
		return date
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return date + "T" + t.Format("15:04:05")
}

func status(keyword string) model.Status {
	switch keyword {
	case "DONE":
		return model.StatusFinished
	case "STARTED":
		return model.StatusInProgress
	default:
		return model.StatusToDo
	}
}

func priority(cookie string) model.Priority {
	switch cookie {
	case "A":
		return model.PriorityCritical
	case "B":
		return model.PriorityImportant
	default:
		return model.PriorityOptional
	}
}

// FilterTasks returns the tasks carrying tag.
func FilterTasks(tasks []model.Task, tag string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		for _, t := range task.Tags {
			if t == tag {
				filteredTasks = append(filteredTasks, task)
				break
			}
		}
	}
	return filteredTasks
}
