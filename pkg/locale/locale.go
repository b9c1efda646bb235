// Package locale holds the month and weekday name tables used for calendar
// labels. Tables are injected into the navigator rather than looked up
// globally.
package locale

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var ErrUnsupported = errors.New("unsupported locale")

// Table names months and weekdays for one language.
type Table struct {
	Tag      language.Tag
	Months   [12]string
	Weekdays [7]string // Monday first
}

// Month returns the name of m.
func (t Table) Month(m time.Month) string {
	if m < time.January || m > time.December {
		return fmt.Sprintf("%d", int(m))
	}
	return t.Months[m-1]
}

// Weekday returns the abbreviation of a Monday-first column index.
func (t Table) Weekday(col int) string {
	return t.Weekdays[((col%7)+7)%7]
}

// MonthYear formats a month label such as "June 2025".
func (t Table) MonthYear(y int, m time.Month) string {
	return fmt.Sprintf("%s %d", t.Month(m), y)
}

// Range formats an inclusive date range, collapsing the shared month or year:
// "9 – 15 June 2025", "30 June – 6 July 2025", "29 December 2025 – 4 January 2026".
func (t Table) Range(from, to time.Time) string {
	switch {
	case from.Year() != to.Year():
		return fmt.Sprintf("%d %s %d – %d %s %d", from.Day(), t.Month(from.Month()), from.Year(), to.Day(), t.Month(to.Month()), to.Year())
	case from.Month() != to.Month():
		return fmt.Sprintf("%d %s – %d %s %d", from.Day(), t.Month(from.Month()), to.Day(), t.Month(to.Month()), to.Year())
	default:
		return fmt.Sprintf("%d – %d %s %d", from.Day(), to.Day(), t.Month(to.Month()), to.Year())
	}
}

// Day formats a single date as "11 June 2025".
func (t Table) Day(d time.Time) string {
	return fmt.Sprintf("%d %s %d", d.Day(), t.Month(d.Month()), d.Year())
}

var English = Table{
	Tag:      language.English,
	Months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	Weekdays: [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
}

var German = Table{
	Tag:      language.German,
	Months:   [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	Weekdays: [7]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"},
}

var Spanish = Table{
	Tag:      language.Spanish,
	Months:   [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	Weekdays: [7]string{"lu", "ma", "mi", "ju", "vi", "sá", "do"},
}

var French = Table{
	Tag:      language.French,
	Months:   [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	Weekdays: [7]string{"lu", "ma", "me", "je", "ve", "sa", "di"},
}

var tables = []Table{English, German, Spanish, French}

var matcher = language.NewMatcher([]language.Tag{English.Tag, German.Tag, Spanish.Tag, French.Tag})

// Lookup returns the table best matching a BCP-47 tag such as "de-AT". It
// fails with ErrUnsupported when no table matches with at least low
// confidence; callers usually fall back to English.
func Lookup(tag string) (Table, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return English, fmt.Errorf("%w: %q: %v", ErrUnsupported, tag, err)
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return English, fmt.Errorf("%w: %q", ErrUnsupported, tag)
	}
	return tables[idx], nil
}
