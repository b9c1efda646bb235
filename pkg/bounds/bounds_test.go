package bounds

import (
	"testing"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := datekey.ParseKey(s)
	if err != nil {
		panic(err)
	}
	return d
}

func q1(t *testing.T) *Window {
	t.Helper()
	w, err := NewWindow("2025-01-01", "2025-03-31")
	require.NoError(t, err)
	return w
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow("2025-01-01", "")
	require.NoError(t, err)
	assert.Nil(t, w.End)

	_, err = NewWindow("2025-03-01", "2025-02-28")
	assert.ErrorIs(t, err, ErrInvertedWindow)

	_, err = NewWindow("nope", "")
	assert.ErrorIs(t, err, datekey.ErrInvalidKey)

	w, err = NewWindow("2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.True(t, IsInBounds(day("2025-03-01"), w))
}

func TestForProject(t *testing.T) {
	w, err := ForProject(model.Project{ID: "p1", StartDate: "2025-01-01T09:00:00", EndDate: "2025-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", datekey.ToKey(w.Start))

	_, err = ForProject(model.Project{ID: "p2", StartDate: "2025-02-02", EndDate: "2025-02-01"})
	assert.ErrorIs(t, err, ErrInvertedWindow)
}

func TestIsInBounds(t *testing.T) {
	w := q1(t)
	assert.False(t, IsInBounds(day("2024-12-31"), w))
	assert.True(t, IsInBounds(day("2025-01-01"), w))
	assert.True(t, IsInBounds(day("2025-03-31"), w))
	assert.False(t, IsInBounds(day("2025-04-01"), w))
	assert.True(t, IsInBounds(day("1970-01-01"), nil))

	open, err := NewWindow("2025-01-01", "")
	require.NoError(t, err)
	assert.True(t, IsInBounds(day("2099-01-01"), open))
}

func TestCanStepUnit_Month(t *testing.T) {
	w := q1(t)
	assert.False(t, CanStepUnit(Previous, day("2025-01-15"), model.ViewMonth, w))
	assert.True(t, CanStepUnit(Next, day("2025-01-15"), model.ViewMonth, w))
	assert.True(t, CanStepUnit(Previous, day("2025-03-15"), model.ViewMonth, w))
	assert.False(t, CanStepUnit(Next, day("2025-03-15"), model.ViewMonth, w))
	assert.True(t, CanStepUnit(Previous, day("2025-01-15"), model.ViewMonth, nil))
}

func TestCanStepUnit_PartialMonthIsReachable(t *testing.T) {
	w, err := NewWindow("2025-01-20", "2025-03-10")
	require.NoError(t, err)
	assert.True(t, CanStepUnit(Previous, day("2025-02-15"), model.ViewMonth, w))
	assert.True(t, CanStepUnit(Next, day("2025-02-15"), model.ViewMonth, w))
}

func TestCanStepUnit_Week(t *testing.T) {
	// 2025-01-01 is a Wednesday; its week is Dec 30 .. Jan 5.
	w := q1(t)
	assert.True(t, CanStepUnit(Previous, day("2025-01-08"), model.ViewWeek, w))
	assert.False(t, CanStepUnit(Previous, day("2025-01-03"), model.ViewWeek, w))
	// Week of Mar 31 is Mar 31 .. Apr 6.
	assert.True(t, CanStepUnit(Next, day("2025-03-26"), model.ViewWeek, w))
	assert.False(t, CanStepUnit(Next, day("2025-03-31"), model.ViewWeek, w))
}

func TestCanStepUnit_Day(t *testing.T) {
	w := q1(t)
	assert.False(t, CanStepUnit(Previous, day("2025-01-01"), model.ViewDay, w))
	assert.True(t, CanStepUnit(Previous, day("2025-01-02"), model.ViewDay, w))
	assert.False(t, CanStepUnit(Next, day("2025-03-31"), model.ViewDay, w))
}

func TestAddMonths_ClipsDay(t *testing.T) {
	assert.Equal(t, "2025-02-28", datekey.ToKey(AddMonths(day("2025-01-31"), 1)))
	assert.Equal(t, "2024-02-29", datekey.ToKey(AddMonths(day("2024-03-31"), -1)))
	assert.Equal(t, "2026-01-15", datekey.ToKey(AddMonths(day("2025-12-15"), 1)))
	assert.Equal(t, "2024-12-31", datekey.ToKey(AddMonths(day("2025-01-31"), -1)))
}

func TestClamp(t *testing.T) {
	w := q1(t)
	assert.Equal(t, "2025-01-01", datekey.ToKey(Clamp(day("2024-06-01"), w)))
	assert.Equal(t, "2025-03-31", datekey.ToKey(Clamp(day("2025-06-01"), w)))
	assert.Equal(t, "2025-02-10", datekey.ToKey(Clamp(day("2025-02-10"), w)))
}

func TestAvailableYearsAndMonths(t *testing.T) {
	now := day("2025-06-01")
	assert.Empty(t, AvailableYears(nil, now))
	assert.Empty(t, AvailableMonths(2025, nil, now))

	w, err := NewWindow("2024-11-15", "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, AvailableYears(w, now))
	assert.Equal(t, []time.Month{time.November, time.December}, AvailableMonths(2024, w, now))
	assert.Equal(t, []time.Month{time.January, time.February}, AvailableMonths(2025, w, now))
	assert.Empty(t, AvailableMonths(2026, w, now))

	open, err := NewWindow("2024-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025, 2026, 2027}, AvailableYears(open, now))
	assert.Len(t, AvailableMonths(2024, open, now), 10)
	assert.Len(t, AvailableMonths(2027, open, now), 12)
	assert.Empty(t, AvailableMonths(2028, open, now))
}

func TestDefaultYears(t *testing.T) {
	assert.Equal(t, []int{2023, 2024, 2025, 2026, 2027}, DefaultYears(day("2025-06-01")))
}
