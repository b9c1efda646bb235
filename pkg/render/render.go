// Package render draws navigator views as plain terminal text with lipgloss.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/grid"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/navigator"
	"github.com/harrisonrobin/taskcal/pkg/projector"
)

const (
	minCellWidth    = 8
	eventsPerCell   = 3
	outOfBoundsMark = "·"
	hourLabelWidth  = 5
	focusMark       = "›"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle     = lipgloss.NewStyle().Bold(true)
	otherMonthStyle = lipgloss.NewStyle().Faint(true)
	todayStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"})
	focusStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "75"})
)

// View renders whatever view the navigator is in. width is the total
// terminal width; zero picks a compact default.
func View(n *navigator.Navigator, width int) string {
	return Focused(n, width, "")
}

// Focused is View with the day keyed focus marked as the cursor. An empty
// focus marks nothing.
func Focused(n *navigator.Navigator, width int, focus string) string {
	switch n.View() {
	case model.ViewWeek:
		return week(n, width, focus)
	case model.ViewDay:
		return Day(n, width)
	default:
		return month(n, width, focus)
	}
}

// Month draws the 6x7 grid with a weekday header.
func Month(n *navigator.Navigator, width int) string {
	return month(n, width, "")
}

func month(n *navigator.Navigator, width int, focus string) string {
	days := n.Grid()
	if n.View() != model.ViewMonth {
		days = n.MonthGrid()
	}
	cellWidth := cellWidth(width)
	tbl := n.Locale()

	header := make([]string, grid.DaysPerWeek)
	for col := range header {
		header[col] = headerStyle.Width(cellWidth).Render(tbl.Weekday(col))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for week := 0; week < len(days)/grid.DaysPerWeek; week++ {
		cells := make([]string, grid.DaysPerWeek)
		for col := range cells {
			day := days[week*grid.DaysPerWeek+col]
			cells[col] = monthCell(day, cellWidth, focus != "" && datekey.ToKey(day.Date) == focus)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return titleStyle.Render(n.Label()) + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func monthCell(day model.CalendarDay, width int, focused bool) string {
	style := lipgloss.NewStyle().Width(width).Height(eventsPerCell + 1)
	if !day.IsInBounds {
		return style.Render(mutedStyle.Render(outOfBoundsMark))
	}

	number := fmt.Sprintf("%2d", day.DayNumber)
	switch {
	case day.IsToday:
		number = todayStyle.Render(number)
	case !day.IsCurrentMonth:
		number = otherMonthStyle.Render(number)
	}
	if focused {
		number = focusStyle.Render(focusMark) + number
	}

	lines := []string{number}
	for i, ev := range day.Events {
		if i == eventsPerCell-1 && len(day.Events) > eventsPerCell {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", len(day.Events)-i)))
			break
		}
		lines = append(lines, eventLabel(ev, width-1))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Week draws seven day columns against 24 hour rows.
func Week(n *navigator.Navigator, width int) string {
	return week(n, width, "")
}

func week(n *navigator.Navigator, width int, focus string) string {
	days := n.Grid()
	if n.View() != model.ViewWeek {
		days = n.WeekGrid()
	}
	cellWidth := cellWidth(width - hourLabelWidth - 1)
	tbl := n.Locale()

	header := []string{strings.Repeat(" ", hourLabelWidth+1)}
	hours := make([][projector.HoursPerDay][]model.CalendarEvent, len(days))
	for i, day := range days {
		label := fmt.Sprintf("%s %d", tbl.Weekday(i), day.DayNumber)
		if day.IsToday {
			label = todayStyle.Render(label)
		}
		if focus != "" && datekey.ToKey(day.Date) == focus {
			label = focusStyle.Render(focusMark) + label
		}
		header = append(header, headerStyle.Width(cellWidth).Render(label))
		if day.IsInBounds {
			hours[i] = n.Hours(day.Date)
		}
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for hour := 0; hour < projector.HoursPerDay; hour++ {
		cells := []string{hourLabel(hour)}
		for i, day := range days {
			cells = append(cells, hourCell(day, hours[i][hour], cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return titleStyle.Render(n.Label()) + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func hourCell(day model.CalendarDay, events []model.CalendarEvent, width int) string {
	style := lipgloss.NewStyle().Width(width)
	switch {
	case !day.IsInBounds:
		return style.Render(mutedStyle.Render(outOfBoundsMark))
	case len(events) == 0:
		return style.Render("")
	case len(events) == 1:
		return style.Render(eventLabel(events[0], width-1))
	default:
		more := fmt.Sprintf(" +%d", len(events)-1)
		return style.Render(eventLabel(events[0], width-1-len(more)) + mutedStyle.Render(more))
	}
}

// Day lists every hour of the selected day with all events occupying it.
func Day(n *navigator.Navigator, width int) string {
	selected := n.SelectedDay()
	if selected == nil {
		days := n.Grid()
		selected = &days[0]
	}
	if !selected.IsInBounds {
		return titleStyle.Render(n.Label()) + "\n" + mutedStyle.Render(outOfBoundsMark)
	}

	textWidth := width - hourLabelWidth - 1
	if textWidth < minCellWidth {
		textWidth = 60
	}

	hours := n.Hours(selected.Date)
	rows := make([]string, 0, projector.HoursPerDay)
	for hour, events := range hours {
		labels := make([]string, len(events))
		for i, ev := range events {
			labels[i] = eventLabel(ev, textWidth)
		}
		rows = append(rows, hourLabel(hour)+" "+strings.Join(labels, mutedStyle.Render(", ")))
	}

	return titleStyle.Render(n.Label()) + "\n" + strings.Join(rows, "\n")
}

func hourLabel(hour int) string {
	return mutedStyle.Width(hourLabelWidth).Render(fmt.Sprintf("%02d:00", hour))
}

// eventLabel is the event title in its priority color. Continuations are
// marked so multi-day spans read as one bar.
func eventLabel(ev model.CalendarEvent, width int) string {
	title := ev.Title
	if ev.IsContinuation {
		title = "…" + title
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ev.Color)).Render(truncate(title, width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return xansi.Truncate(s, width, "…")
}

func cellWidth(total int) int {
	w := total / grid.DaysPerWeek
	if w < minCellWidth {
		return minCellWidth + 4
	}
	return w
}

// Agenda lists the tasks of each in-bounds day of days that has events, one
// line per event. It is used for non-interactive output.
func Agenda(days []model.CalendarDay, label func(time.Time) string) string {
	var b strings.Builder
	for _, day := range days {
		if !day.IsInBounds || len(day.Events) == 0 {
			continue
		}
		b.WriteString(headerStyle.Render(label(day.Date)))
		b.WriteString("\n")
		for _, ev := range day.Events {
			b.WriteString("  ")
			b.WriteString(eventLabel(ev, 72))
			b.WriteString(mutedStyle.Render(" [" + string(ev.Task.Priority) + "]"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
