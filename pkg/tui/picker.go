package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/taskcal/pkg/navigator"
)

var pickedStyle = lipgloss.NewStyle().Bold(true)

// picker chooses a month to jump to from the years and months the navigator
// offers.
type picker struct {
	nav    *navigator.Navigator
	years  []int
	months []time.Month
	year   int
	month  int
}

func newPicker(nav *navigator.Navigator) *picker {
	p := &picker{nav: nav, years: nav.AvailableYears()}
	cur := nav.CurrentDate()
	p.year = nearest(len(p.years), func(i int) int { return p.years[i] - cur.Year() })
	p.loadMonths(cur.Month())
	return p
}

// loadMonths refreshes the month list for the chosen year, keeping want
// selected when the year offers it.
func (p *picker) loadMonths(want time.Month) {
	p.months = nil
	if len(p.years) > 0 {
		p.months = p.nav.AvailableMonths(p.years[p.year])
	}
	p.month = nearest(len(p.months), func(i int) int { return int(p.months[i] - want) })
}

func (p *picker) moveYear(delta int) {
	want, _, _ := p.selected()
	p.year = clampIndex(p.year+delta, len(p.years))
	p.loadMonths(want)
}

func (p *picker) moveMonth(delta int) {
	p.month = clampIndex(p.month+delta, len(p.months))
}

func (p *picker) selected() (time.Month, int, bool) {
	if len(p.years) == 0 || len(p.months) == 0 {
		return 0, 0, false
	}
	return p.months[p.month], p.years[p.year], true
}

func (p *picker) View() string {
	m, y, ok := p.selected()
	if !ok {
		return "nothing to jump to"
	}
	tbl := p.nav.Locale()
	names := make([]string, len(p.months))
	for i, month := range p.months {
		names[i] = tbl.Month(month)
		if month == m {
			names[i] = pickedStyle.Render("[" + names[i] + "]")
		}
	}
	return fmt.Sprintf("jump to %s: %s", pickedStyle.Render(fmt.Sprint(y)), strings.Join(names, " "))
}

// nearest returns the index in [0, n) whose distance reports the smallest
// absolute value, preferring the earlier index on ties.
func nearest(n int, distance func(int) int) int {
	best, bestDist := 0, -1
	for i := 0; i < n; i++ {
		d := distance(i)
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func clampIndex(i, n int) int {
	switch {
	case n == 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}
