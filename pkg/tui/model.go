// Package tui is the interactive calendar: a bubbletea model over a
// navigator.Navigator.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/grid"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/navigator"
	"github.com/harrisonrobin/taskcal/pkg/render"
)

// LoadFunc fetches a fresh task snapshot.
type LoadFunc func(ctx context.Context) ([]model.Task, error)

type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#c62828"))
)

type Model struct {
	nav        *navigator.Navigator
	load       LoadFunc
	keys       keyMap
	pickerKeys pickerKeyMap
	help       help.Model
	input      textinput.Model
	pick       *picker
	// cursor is the key of the focused grid day; anchor is the date and view
	// it was last reset for.
	cursor string
	anchor string
	width  int
	status string
	err    error
}

// New wraps nav. load may be nil, which disables reloading.
func New(nav *navigator.Navigator, load LoadFunc) Model {
	input := textinput.New()
	input.Placeholder = datekey.Layout
	input.Prompt = "go to: "
	input.CharLimit = len(datekey.Layout)

	m := Model{
		nav:        nav,
		load:       load,
		keys:       defaultKeyMap(),
		pickerKeys: defaultPickerKeyMap(),
		help:       help.New(),
		input:      input,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("taskcal")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.sync()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tasksLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.nav.SetTasks(msg.tasks)
			m.status = fmt.Sprintf("%d tasks", len(msg.tasks))
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.input.Focused():
			return m.updateInput(msg)
		case m.pick != nil:
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// sync enables the step keys only when the step can succeed and resets the
// cursor to the current date whenever the visible unit changes.
func (m *Model) sync() {
	m.keys.Prev.SetEnabled(m.nav.CanNavigatePrevious())
	m.keys.Next.SetEnabled(m.nav.CanNavigateNext())

	onGrid := m.nav.View() != model.ViewDay
	m.keys.Up.SetEnabled(onGrid)
	m.keys.Down.SetEnabled(onGrid)
	m.keys.Select.SetEnabled(onGrid)

	anchor := string(m.nav.View()) + "@" + datekey.ToKey(m.nav.CurrentDate())
	if anchor != m.anchor || m.cursorIndex() < 0 {
		m.anchor = anchor
		m.cursor = datekey.ToKey(m.nav.CurrentDate())
	}
}

func (m Model) cursorIndex() int {
	for i, day := range m.nav.Grid() {
		if datekey.ToKey(day.Date) == m.cursor {
			return i
		}
	}
	return -1
}

// moveCursor moves the focus by one grid row: a week in month view, a day in
// week view. It stops at the grid edges.
func (m *Model) moveCursor(rows int) {
	days := m.nav.Grid()
	step := 1
	if m.nav.View() == model.ViewMonth {
		step = grid.DaysPerWeek
	}
	i := clampIndex(m.cursorIndex()+rows*step, len(days))
	m.cursor = datekey.ToKey(days[i].Date)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.nav.NavigatePrevious()
	case key.Matches(msg, m.keys.Next):
		m.nav.NavigateNext()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Select):
		if i := m.cursorIndex(); i >= 0 && !m.nav.SelectDay(m.nav.Grid()[i]) {
			m.status = fmt.Sprintf("%s is outside the project", m.cursor)
		}
	case key.Matches(msg, m.keys.Pick):
		m.pick = newPicker(m.nav)
	case key.Matches(msg, m.keys.PrevYear):
		m.jumpYears(-1)
	case key.Matches(msg, m.keys.NextYear):
		m.jumpYears(1)
	case key.Matches(msg, m.keys.Month), key.Matches(msg, m.keys.Back):
		m.nav.ChangeView(model.ViewMonth)
	case key.Matches(msg, m.keys.Week):
		m.nav.ChangeView(model.ViewWeek)
	case key.Matches(msg, m.keys.Day):
		m.nav.ChangeView(model.ViewDay)
	case key.Matches(msg, m.keys.Today):
		m.nav.Today()
		m.anchor = ""
	case key.Matches(msg, m.keys.GoTo):
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reload):
		if m.load != nil {
			return m, m.reload()
		}
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.pickerKeys.Cancel):
		m.pick = nil
	case key.Matches(msg, m.pickerKeys.Confirm):
		month, year, ok := m.pick.selected()
		m.pick = nil
		if ok && !m.nav.JumpTo(month, year) {
			m.status = fmt.Sprintf("%s is outside the project", m.nav.Locale().MonthYear(year, month))
		}
	case key.Matches(msg, m.pickerKeys.PrevMonth):
		m.pick.moveMonth(-1)
	case key.Matches(msg, m.pickerKeys.NextMonth):
		m.pick.moveMonth(1)
	case key.Matches(msg, m.pickerKeys.PrevYear):
		m.pick.moveYear(-1)
	case key.Matches(msg, m.pickerKeys.NextYear):
		m.pick.moveYear(1)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		d, err := datekey.ParseKey(m.input.Value())
		switch {
		case err != nil:
			m.status = fmt.Sprintf("not a date: %q", m.input.Value())
		case !m.nav.GoTo(d):
			m.status = fmt.Sprintf("%s is outside the project", datekey.ToKey(d))
		default:
			m.status = ""
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) jumpYears(delta int) {
	d := m.nav.CurrentDate()
	if !m.nav.JumpTo(d.Month(), d.Year()+delta) {
		m.status = fmt.Sprintf("%s is outside the project", m.nav.Locale().MonthYear(d.Year()+delta, d.Month()))
	}
}

func (m Model) reload() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		tasks, err := load(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	body := render.Focused(m.nav, m.width, m.cursor)
	footer := m.help.View(m.keys)
	switch {
	case m.pick != nil:
		footer = m.pick.View() + "\n" + m.help.View(m.pickerKeys)
	case m.input.Focused():
		footer = m.input.View() + "\n" + footer
	case m.err != nil:
		footer = errorStyle.Render(m.err.Error()) + "\n" + footer
	case m.status != "":
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	return body + "\n\n" + footer + "\n"
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, nav *navigator.Navigator, load LoadFunc) error {
	_, err := tea.NewProgram(New(nav, load), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
