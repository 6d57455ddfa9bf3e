package valueobjects

import (
	"fmt"
	"time"
)

// DateLayout is the literal format used for calendar dates throughout the
// system: 4-digit year, 2-digit month, 2-digit day, ASCII hyphens.
const DateLayout = "2006-01-02"

// CalendarDate is a value object representing a calendar day with no
// time-of-day component. Comparisons are whole-day comparisons.
type CalendarDate struct {
	t time.Time
}

// ParseCalendarDate parses a YYYY-MM-DD literal into a CalendarDate.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return CalendarDate{t: t}, nil
}

// CalendarDateOf truncates a timestamp to its calendar date in the
// timestamp's location.
func CalendarDateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the YYYY-MM-DD representation.
func (d CalendarDate) String() string {
	return d.t.Format(DateLayout)
}

// Before reports whether d falls strictly before other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.t.Before(other.t)
}

// After reports whether d falls strictly after other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.t.After(other.t)
}

// Equals checks if two CalendarDates name the same day.
func (d CalendarDate) Equals(other CalendarDate) bool {
	return d.t.Equal(other.t)
}

// IsZero checks if the CalendarDate is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// WithinInclusive reports whether d falls inside [from, until], both ends
// inclusive. An inverted range (from after until) contains no days.
func (d CalendarDate) WithinInclusive(from, until CalendarDate) bool {
	return !d.Before(from) && !d.After(until)
}
