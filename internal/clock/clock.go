// Package clock provides the day-boundary abstraction used for daily
// records. Days are calendar dates in a fixed location (UTC unless
// configured otherwise) so that "today" and "yesterday" are always
// computed against the same boundary.
package clock

import (
	"fmt"
	"time"
)

// DayLayout is the storage format of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date formatted as YYYY-MM-DD. The zero value means
// "no day".
type Day string

// ParseDay validates s as a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day(t.Format(DayLayout)), nil
}

// DayOf returns the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	return Day(t.In(loc).Format(DayLayout))
}

// IsZero reports whether d is unset.
func (d Day) IsZero() bool { return d == "" }

func (d Day) String() string { return string(d) }

// AddDays returns the day n days after d. A zero or malformed day is
// returned unchanged.
func (d Day) AddDays(n int) Day {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return d
	}
	return Day(t.AddDate(0, 0, n).Format(DayLayout))
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a Clock frozen at T. Tests advance it by assigning T.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Calendar derives days from a Clock in a fixed location.
type Calendar struct {
	Clock    Clock
	Location *time.Location
}

// NewCalendar returns a Calendar over c. A nil clock uses the system clock
// and a nil location uses UTC.
func NewCalendar(c Clock, loc *time.Location) Calendar {
	if c == nil {
		c = System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Clock: c, Location: loc}
}

// Now returns the current instant.
func (c Calendar) Now() time.Time { return c.Clock.Now() }

// Today returns the current calendar day.
func (c Calendar) Today() Day { return DayOf(c.Clock.Now(), c.Location) }

// Yesterday returns the day before Today.
func (c Calendar) Yesterday() Day { return c.Today().AddDays(-1) }
