package navigator

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/harrisonrobin/taskcal/pkg/bounds"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/grid"
	"github.com/harrisonrobin/taskcal/pkg/locale"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(key string) datekey.Clock {
	d, err := datekey.ParseKey(key)
	if err != nil {
		panic(err)
	}
	at := d.Add(10 * time.Hour)
	return func() time.Time { return at }
}

func window(t *testing.T, start, end string) *bounds.Window {
	t.Helper()
	w, err := bounds.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func key(d time.Time) string { return datekey.ToKey(d) }

var tasks = []model.Task{
	{ID: "t1", Name: "Kickoff", StartDate: "2025-01-15T09:00:00", Priority: model.PriorityImportant},
	{ID: "t2", Name: "Build", StartDate: "2025-02-03", EndDate: "2025-02-07", Priority: model.PriorityCritical},
}

func TestNew_DefaultsToTodayInMonthView(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-06-11")})
	assert.Equal(t, "2025-06-11", key(n.CurrentDate()))
	assert.Equal(t, model.ViewMonth, n.View())
	assert.Len(t, n.Grid(), grid.MonthCells)
	assert.Nil(t, n.SelectedDay())
	for _, d := range n.Grid() {
		assert.True(t, d.IsInBounds)
	}
}

func TestNew_FutureWindowStart(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2024-11-02"), Window: window(t, "2025-01-01", "2025-03-31")})
	assert.Equal(t, "2025-01-01", key(n.CurrentDate()))
}

func TestNew_PastWindowEnd(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-08-20"), Window: window(t, "2025-01-01", "2025-03-31")})
	assert.Equal(t, "2025-03-31", key(n.CurrentDate()))
}

func TestNavigatePrevious_RefusedAtWindowStart(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-15"), Window: window(t, "2025-01-01", "2025-03-31")})
	before := n.State()

	assert.False(t, n.CanNavigatePrevious())
	assert.False(t, n.NavigatePrevious())
	assert.Equal(t, before, n.State())
	assert.Equal(t, "2025-01-15", key(n.CurrentDate()))
}

func TestNavigateNext_MonthStepsUntilWindowEnd(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-31"), Window: window(t, "2025-01-01", "2025-03-31")})

	require.True(t, n.NavigateNext())
	assert.Equal(t, "2025-02-28", key(n.CurrentDate()))
	require.True(t, n.NavigateNext())
	assert.Equal(t, "2025-03-28", key(n.CurrentDate()))
	assert.False(t, n.CanNavigateNext())
	assert.False(t, n.NavigateNext())
	assert.Equal(t, "2025-03-28", key(n.CurrentDate()))
	assert.Equal(t, "March 2025", n.MonthYearLabel())
}

func TestNavigate_ClampsIntoPartialMonth(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-10"), Window: window(t, "2025-01-20", "2025-03-05")})

	require.True(t, n.NavigatePrevious())
	assert.Equal(t, "2025-01-20", key(n.CurrentDate()))
	assert.False(t, n.NavigatePrevious())

	require.True(t, n.NavigateNext())
	require.True(t, n.NavigateNext())
	assert.Equal(t, "2025-03-05", key(n.CurrentDate()))

	inBounds := 0
	for _, d := range n.Grid() {
		if d.IsInBounds {
			inBounds++
		}
	}
	// Feb 24 .. Mar 5 visible in the March grid.
	assert.Equal(t, 10, inBounds)
}

func TestNavigate_Unbounded(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-15")})
	for i := 0; i < 30; i++ {
		require.True(t, n.NavigatePrevious())
	}
	assert.Equal(t, "2022-07-15", key(n.CurrentDate()))
}

func TestWeekView(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-05"), Window: window(t, "2025-01-01", "2025-03-31")})
	n.ChangeView(model.ViewWeek)

	days := n.Grid()
	require.Len(t, days, grid.DaysPerWeek)
	assert.Equal(t, "2025-02-03", key(days[0].Date))
	for _, d := range days[:5] {
		require.Len(t, d.Events, 1)
		assert.Equal(t, "t2", d.Events[0].Task.ID)
	}
	assert.Empty(t, days[5].Events)
	assert.Equal(t, "3 – 9 February 2025", n.WeekRangeLabel())
	assert.Equal(t, n.WeekRangeLabel(), n.Label())

	require.True(t, n.NavigateNext())
	assert.Equal(t, "2025-02-12", key(n.CurrentDate()))
}

func TestWeekView_RefusedBeforeWindow(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-03"), Window: window(t, "2025-01-01", "2025-03-31"), View: model.ViewWeek})
	assert.False(t, n.NavigatePrevious())
	assert.Equal(t, "2025-01-03", key(n.CurrentDate()))
}

func TestChangeViewDay_BuildsSelectedDay(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-04")})
	n.ChangeView(model.ViewDay)

	selected := n.SelectedDay()
	require.NotNil(t, selected)
	assert.Equal(t, "2025-02-04", key(selected.Date))
	assert.True(t, selected.IsToday)
	require.Len(t, selected.Events, 1)
	assert.Len(t, n.Grid(), 1)

	require.True(t, n.NavigateNext())
	assert.Equal(t, "2025-02-05", key(n.SelectedDay().Date))

	n.ChangeView(model.ViewMonth)
	assert.Nil(t, n.SelectedDay())
}

func TestSelectDay(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-10"), Window: window(t, "2025-01-01", "2025-03-31")})
	cells := n.Grid()

	// 2025-01-01 is a Wednesday, so cells 0 and 1 are Dec 30 and 31.
	assert.False(t, cells[0].IsInBounds)
	assert.False(t, n.SelectDay(cells[0]))
	assert.Equal(t, model.ViewMonth, n.View())

	require.True(t, n.SelectDay(cells[16]))
	assert.Equal(t, model.ViewDay, n.View())
	assert.Equal(t, "2025-01-15", key(n.CurrentDate()))
	require.NotNil(t, n.SelectedDay())
	require.Len(t, n.SelectedDay().Events, 1)
	assert.Equal(t, "Kickoff", n.SelectedDay().Events[0].Title)
	assert.Len(t, n.HourEvents(n.CurrentDate(), 9), 1)
	assert.Empty(t, n.HourEvents(n.CurrentDate(), 8))
	assert.Equal(t, "15 January 2025", n.Label())
}

func TestJumpTo(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-31"), Window: window(t, "2025-01-01", "2025-03-15")})

	assert.False(t, n.JumpTo(time.April, 2025))
	assert.False(t, n.JumpTo(time.December, 2024))
	assert.False(t, n.JumpTo(13, 2025))
	assert.Equal(t, "2025-01-31", key(n.CurrentDate()))

	require.True(t, n.JumpTo(time.February, 2025))
	assert.Equal(t, "2025-02-28", key(n.CurrentDate()))
	require.True(t, n.JumpTo(time.March, 2025))
	assert.Equal(t, "2025-03-15", key(n.CurrentDate()))
}

func TestAvailableYearsAndMonths(t *testing.T) {
	free := New(nil, Options{Clock: clockAt("2025-06-01")})
	assert.Equal(t, []int{2023, 2024, 2025, 2026, 2027}, free.AvailableYears())
	assert.Len(t, free.AvailableMonths(2030), 12)

	bounded := New(nil, Options{Clock: clockAt("2025-06-01"), Window: window(t, "2025-01-01", "2025-03-15")})
	assert.Equal(t, []int{2025}, bounded.AvailableYears())
	assert.Equal(t, []time.Month{time.January, time.February, time.March}, bounded.AvailableMonths(2025))
}

func TestSetTasks_Rebuilds(t *testing.T) {
	n := New(nil, Options{Clock: clockAt("2025-02-04"), View: model.ViewDay})
	assert.Empty(t, n.SelectedDay().Events)

	n.SetTasks(tasks)
	assert.Len(t, n.SelectedDay().Events, 1)
}

func TestToday(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-04")})
	require.True(t, n.JumpTo(time.October, 2026))
	n.Today()
	assert.Equal(t, "2025-02-04", key(n.CurrentDate()))
}

func TestLocaleLabels(t *testing.T) {
	de := locale.German
	n := New(nil, Options{Clock: clockAt("2025-03-04"), Locale: &de})
	assert.Equal(t, "März 2025", n.MonthYearLabel())
}

func TestState_IsACopy(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-04"), View: model.ViewDay})
	s := n.State()
	s.SelectedDay.DayNumber = 99
	assert.Equal(t, 4, n.SelectedDay().DayNumber)
}

func TestMonthAndWeekGridRegardlessOfView(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-02-04"), View: model.ViewDay})
	assert.Len(t, n.MonthGrid(), grid.MonthCells)
	assert.Len(t, n.WeekGrid(), grid.DaysPerWeek)
	assert.Equal(t, n.MonthGrid(), n.MonthGrid())
}

func TestGoTo(t *testing.T) {
	n := New(tasks, Options{Clock: clockAt("2025-01-15"), Window: window(t, "2025-01-01", "2025-03-31"), View: model.ViewWeek})

	require.True(t, n.GoTo(time.Date(2025, 2, 5, 17, 0, 0, 0, time.Local)))
	assert.Equal(t, "2025-02-05", key(n.CurrentDate()))
	assert.Equal(t, model.ViewWeek, n.View())
	assert.Equal(t, "2025-02-03", key(n.Grid()[0].Date))

	assert.False(t, n.GoTo(time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2025-02-05", key(n.CurrentDate()))
}

func TestDSTStartDay_TasksAndWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })

	onGap := []model.Task{{ID: "g", Name: "Election", StartDate: "2025-09-07", Priority: model.PriorityCritical}}
	w := window(t, "2025-09-07", "2025-09-30")
	assert.Equal(t, "2025-09-07", key(w.Start))

	n := New(onGap, Options{Clock: clockAt("2025-09-01"), Window: w})
	assert.Equal(t, "2025-09-07", key(n.CurrentDate()))

	found := 0
	for _, d := range n.Grid() {
		if key(d.Date) == "2025-09-07" {
			found++
			assert.Len(t, d.Events, 1)
			assert.True(t, d.IsInBounds)
		}
		if key(d.Date) == "2025-09-06" {
			assert.False(t, d.IsInBounds)
		}
	}
	assert.Equal(t, 1, found)
	assert.False(t, n.CanNavigatePrevious())
}
