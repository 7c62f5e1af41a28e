package leave

import (
	"time"
)

// =============================================================================
// DATE - Calendar day abstraction (the engine works in whole days)
// =============================================================================

// Date is a calendar day, normalized to midnight UTC. All classification and
// credit computation is keyed by Date; time-of-day only matters inside a
// partial-day entry and never leaks into classification.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the inclusive day count from 'from' to 'to'.
// Returns 0 when 'to' is before 'from'.
func DaysBetween(from, to Date) int {
	if to.Before(from) {
		return 0
	}
	return int(to.t.Sub(from.t).Hours()/24) + 1
}

// =============================================================================
// CLOCK TIME - Time-of-day for partial-day entries
// =============================================================================

// ClockTime is a minute offset from midnight, parsed from "15:04" strings.
type ClockTime int

// ParseClockTime parses "HH:MM" into minutes from midnight.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) Minutes() int { return int(c) }

func (c ClockTime) String() string {
	return time.Date(0, 1, 1, int(c)/60, int(c)%60, 0, 0, time.UTC).Format("15:04")
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a named non-working day from the company calendar.
type Holiday struct {
	Date Date
	Name string
}

// HolidayCalendar answers whether a date is a company holiday.
type HolidayCalendar interface {
	// HolidayOn returns the holiday name for a date, or ("", false).
	HolidayOn(d Date) (string, bool)
}

// MapHolidayCalendar is a HolidayCalendar backed by a fixed set of holidays.
type MapHolidayCalendar map[Date]string

func NewHolidayCalendar(holidays ...Holiday) MapHolidayCalendar {
	m := make(MapHolidayCalendar, len(holidays))
	for _, h := range holidays {
		m[h.Date] = h.Name
	}
	return m
}

func (m MapHolidayCalendar) HolidayOn(d Date) (string, bool) {
	name, ok := m[d]
	return name, ok
}

// =============================================================================
// REST-DAY PATTERN
// =============================================================================

// RestPattern is the employee's assigned rest-day schedule.
type RestPattern interface {
	IsRestDay(d Date) bool
}

// WeekdayRest marks specific weekdays as rest days.
type WeekdayRest map[time.Weekday]bool

// WeekendRest is the default Saturday/Sunday pattern.
func WeekendRest() WeekdayRest {
	return WeekdayRest{time.Saturday: true, time.Sunday: true}
}

func (w WeekdayRest) IsRestDay(d Date) bool { return w[d.Weekday()] }
