package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/taskcal/pkg/bounds"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/navigator"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainProfile(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prev)
	})
}

func newModel(t *testing.T, load LoadFunc) Model {
	t.Helper()
	plainProfile(t)
	w, err := bounds.NewWindow("2025-01-01", "2025-03-31")
	require.NoError(t, err)
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	nav := navigator.New(nil, navigator.Options{
		Window: w,
		Clock:  func() time.Time { return at },
	})
	return New(nav, load)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNavigationKeys(t *testing.T) {
	m := newModel(t, nil)

	m = press(t, m, "right", "l")
	assert.Equal(t, time.March, m.nav.CurrentDate().Month())

	m = press(t, m, "t")
	assert.Equal(t, "2025-01-15", datekey.ToKey(m.nav.CurrentDate()))
}

func TestStepKeysFollowWindowEdges(t *testing.T) {
	m := newModel(t, nil)
	assert.False(t, m.keys.Prev.Enabled())
	assert.True(t, m.keys.Next.Enabled())
	assert.NotContains(t, m.View(), "←/h")
	assert.Contains(t, m.View(), "→/l")

	m = press(t, m, "left")
	assert.Equal(t, "2025-01-15", datekey.ToKey(m.nav.CurrentDate()))

	m = press(t, m, "right", "right")
	assert.Equal(t, time.March, m.nav.CurrentDate().Month())
	assert.True(t, m.keys.Prev.Enabled())
	assert.False(t, m.keys.Next.Enabled())
	assert.NotContains(t, m.View(), "→/l")

	m = press(t, m, "right")
	assert.Equal(t, time.March, m.nav.CurrentDate().Month())

	m = press(t, m, "w")
	assert.True(t, m.keys.Next.Enabled(), "week view can still reach the last week of March")
}

func TestViewKeys(t *testing.T) {
	m := newModel(t, nil)

	m = press(t, m, "w")
	assert.Equal(t, model.ViewWeek, m.nav.View())
	m = press(t, m, "d")
	assert.Equal(t, model.ViewDay, m.nav.View())
	require.NotNil(t, m.nav.SelectedDay())
	assert.False(t, m.keys.Select.Enabled())
	m = press(t, m, "m")
	assert.Equal(t, model.ViewMonth, m.nav.View())
}

func TestCursorSelectsDay(t *testing.T) {
	m := newModel(t, nil)
	assert.Equal(t, "2025-01-15", m.cursor)

	m = press(t, m, "down")
	assert.Equal(t, "2025-01-22", m.cursor)
	assert.Contains(t, m.View(), "›22")
	assert.Equal(t, "2025-01-15", datekey.ToKey(m.nav.CurrentDate()))

	m = press(t, m, "enter")
	assert.Equal(t, model.ViewDay, m.nav.View())
	require.NotNil(t, m.nav.SelectedDay())
	assert.Equal(t, "2025-01-22", datekey.ToKey(m.nav.SelectedDay().Date))

	m = press(t, m, "esc")
	assert.Equal(t, model.ViewMonth, m.nav.View())
	assert.Equal(t, "2025-01-22", m.cursor)

	// January 2025 starts on a Wednesday; the first row opens on 30 December.
	m = press(t, m, "up", "up", "up", "up", "up")
	assert.Equal(t, "2024-12-30", m.cursor)
	m = press(t, m, "enter")
	assert.Equal(t, model.ViewMonth, m.nav.View())
	assert.Equal(t, "2024-12-30 is outside the project", m.status)
	assert.Equal(t, "2025-01-22", datekey.ToKey(m.nav.CurrentDate()))
}

func TestCursorInWeekView(t *testing.T) {
	m := newModel(t, nil)
	m = press(t, m, "w")
	assert.Equal(t, "2025-01-15", m.cursor)

	m = press(t, m, "j")
	assert.Equal(t, "2025-01-16", m.cursor)
	m = press(t, m, "down", "down", "down", "down", "down")
	assert.Equal(t, "2025-01-19", m.cursor)

	m = press(t, m, "enter")
	assert.Equal(t, model.ViewDay, m.nav.View())
	assert.Equal(t, "2025-01-19", datekey.ToKey(m.nav.CurrentDate()))
}

func TestCursorResetsOnNavigation(t *testing.T) {
	m := newModel(t, nil)
	m = press(t, m, "down", "right")
	assert.Equal(t, "2025-02-15", m.cursor)

	m = press(t, m, "up", "t")
	assert.Equal(t, "2025-01-15", m.cursor)
}

func TestMonthPicker(t *testing.T) {
	m := newModel(t, nil)

	m = press(t, m, "p")
	require.NotNil(t, m.pick)
	assert.Equal(t, []int{2025}, m.pick.years)
	assert.Equal(t, []time.Month{time.January, time.February, time.March}, m.pick.months)
	assert.Contains(t, m.View(), "[January]")

	m = press(t, m, "right", "right", "right", "down")
	month, year, ok := m.pick.selected()
	require.True(t, ok)
	assert.Equal(t, time.March, month)
	assert.Equal(t, 2025, year)
	assert.Contains(t, m.View(), "[March]")

	m = press(t, m, "enter")
	assert.Nil(t, m.pick)
	assert.Equal(t, "2025-03-15", datekey.ToKey(m.nav.CurrentDate()))

	m = press(t, m, "p", "left", "esc")
	assert.Nil(t, m.pick)
	assert.Equal(t, "2025-03-15", datekey.ToKey(m.nav.CurrentDate()))
}

func TestMonthPicker_Unconstrained(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	nav := navigator.New(nil, navigator.Options{Clock: func() time.Time { return at }})
	m := New(nav, nil)
	plainProfile(t)

	m = press(t, m, "p")
	assert.Equal(t, []int{2023, 2024, 2025, 2026, 2027}, m.pick.years)
	assert.Len(t, m.pick.months, 12)

	m = press(t, m, "up", "k", "k", "left", "enter")
	assert.Equal(t, "2023-01-15", datekey.ToKey(m.nav.CurrentDate()))
}

func TestMonthPicker_KeepsMonthAcrossYears(t *testing.T) {
	w, err := bounds.NewWindow("2024-11-10", "2025-02-10")
	require.NoError(t, err)
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	m := New(navigator.New(nil, navigator.Options{Window: w, Clock: func() time.Time { return at }}), nil)

	m = press(t, m, "p")
	assert.Equal(t, []int{2024, 2025}, m.pick.years)
	m = press(t, m, "up")
	assert.Equal(t, []time.Month{time.November, time.December}, m.pick.months)
	month, year, _ := m.pick.selected()
	assert.Equal(t, time.November, month)
	assert.Equal(t, 2024, year)

	m = press(t, m, "enter")
	assert.Equal(t, "2024-11-15", datekey.ToKey(m.nav.CurrentDate()))
}

func TestYearJumpOutsideWindow(t *testing.T) {
	m := newModel(t, nil)
	m = press(t, m, "]")
	assert.Equal(t, 2025, m.nav.CurrentDate().Year())
	assert.Equal(t, "January 2026 is outside the project", m.status)
}

func TestQuit(t *testing.T) {
	m := newModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReload(t *testing.T) {
	tasks := []model.Task{{ID: "a", Name: "Review", StartDate: "2025-01-15"}}
	m := newModel(t, func(context.Context) ([]model.Task, error) { return tasks, nil })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	next, _ = next.Update(cmd())
	m = next.(Model)
	assert.Equal(t, "1 tasks", m.status)
	assert.Contains(t, m.View(), "Review")

	failing := newModel(t, func(context.Context) ([]model.Task, error) { return nil, errors.New("store closed") })
	next, cmd = failing.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	next, _ = next.Update(cmd())
	assert.Contains(t, next.View(), "store closed")
}

func TestGoToPrompt(t *testing.T) {
	m := newModel(t, nil)

	m = press(t, m, "g")
	require.True(t, m.input.Focused())
	m = press(t, m, "2025-02-20", "enter")
	assert.False(t, m.input.Focused())
	assert.Equal(t, "2025-02-20", datekey.ToKey(m.nav.CurrentDate()))

	m = press(t, m, "g", "2025-06-01", "enter")
	assert.Equal(t, "2025-06-01 is outside the project", m.status)
	assert.Equal(t, "2025-02-20", datekey.ToKey(m.nav.CurrentDate()))

	m = press(t, m, "g", "soon", "enter")
	assert.Equal(t, `not a date: "soon"`, m.status)
}

func TestHelpFooter(t *testing.T) {
	m := newModel(t, nil)
	view := m.View()
	assert.Contains(t, view, "January 2025")
	assert.Contains(t, view, "next")
	assert.Contains(t, view, "pick month")
	assert.Contains(t, view, "quit")
}
